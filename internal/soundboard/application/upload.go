package application

import (
	"cmp"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/zjrosen/soundpad/internal/log"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

// sniffLen is how many bytes content sniffing looks at.
const sniffLen = 512

// audioTypes covers extensions the system MIME table often lacks.
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".m4a":  "audio/mp4",
	".webm": "audio/webm",
}

type readResult struct {
	index int
	sound domain.Sound
}

// readBatch reads every path concurrently and returns the sounds in the
// order the paths were given. Any failure fails the whole batch.
func readBatch(ctx context.Context, fsys afero.Fs, paths []string, maxBytes int64) ([]domain.Sound, error) {
	p := pool.NewWithResults[readResult]().WithContext(ctx).WithFirstError().WithCancelOnError()
	for i, path := range paths {
		p.Go(func(ctx context.Context) (readResult, error) {
			snd, err := readSound(ctx, fsys, path, maxBytes)
			if err != nil {
				return readResult{}, err
			}
			log.Debug(log.CatUpload, "Read file", "path", path, "bytes", len(snd.Payload.Data))
			return readResult{index: i, sound: snd}, nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b readResult) int { return cmp.Compare(a.index, b.index) })
	sounds := make([]domain.Sound, len(results))
	for i, r := range results {
		sounds[i] = r.sound
	}
	return sounds, nil
}

func readSound(ctx context.Context, fsys afero.Fs, path string, maxBytes int64) (domain.Sound, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sound{}, err
	}
	name := domain.NameFromFilename(path)
	if name == "" {
		return domain.Sound{}, &domain.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("%s: cannot derive a sound name from the file name", filepath.Base(path)),
		}
	}

	info, err := fsys.Stat(path)
	if err != nil {
		return domain.Sound{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.Sound{}, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("%s is a directory", path)}
	}
	if info.Size() > maxBytes {
		return domain.Sound{}, &domain.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("%s is %d bytes, over the %d byte limit", filepath.Base(path), info.Size(), maxBytes),
		}
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return domain.Sound{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return domain.Sound{Name: name, Payload: domain.Payload{MIME: detectMIME(path, data), Data: data}}, nil
}

// detectMIME uses the file extension, falling back to content sniffing.
func detectMIME(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return http.DetectContentType(data[:min(len(data), sniffLen)])
}
