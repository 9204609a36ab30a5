package sqlite

import (
	"encoding/json"

	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

// RecordKey is the fixed key the board is stored under.
const RecordKey = "soundsData"

// recordModel is the JSON document stored in records.value. Sounds is an
// array so slot order survives the round trip.
type recordModel struct {
	Sounds  []soundModel      `json:"sounds"`
	Hotkeys map[string]string `json:"hotkeys"`
}

type soundModel struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Data []byte `json:"data"`
}

func toRecordModel(r domain.Record) recordModel {
	m := recordModel{
		Sounds:  make([]soundModel, 0, len(r.Sounds)),
		Hotkeys: r.Hotkeys,
	}
	if m.Hotkeys == nil {
		m.Hotkeys = map[string]string{}
	}
	for _, s := range r.Sounds {
		m.Sounds = append(m.Sounds, soundModel{Name: s.Name, MIME: s.Payload.MIME, Data: s.Payload.Data})
	}
	return m
}

func (m recordModel) toDomain() domain.Record {
	r := domain.Record{
		Sounds:  make([]domain.Sound, 0, len(m.Sounds)),
		Hotkeys: m.Hotkeys,
	}
	for _, s := range m.Sounds {
		r.Sounds = append(r.Sounds, domain.Sound{
			Name:    s.Name,
			Payload: domain.Payload{MIME: s.MIME, Data: s.Data},
		})
	}
	return r
}

func encodeRecord(r domain.Record) ([]byte, error) {
	return json.Marshal(toRecordModel(r))
}

func decodeRecord(b []byte) (domain.Record, error) {
	var m recordModel
	if err := json.Unmarshal(b, &m); err != nil {
		return domain.Record{}, err
	}
	return m.toDomain(), nil
}
