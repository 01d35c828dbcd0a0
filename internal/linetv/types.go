package linetv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

// TimestampLayout is the only accepted created_at format.
const TimestampLayout = "2006-01-02T15:04:05.000Z0700"

// Drama is one catalog entry. Values are immutable once decoded.
type Drama struct {
	ID         int64     `json:"drama_id" yaml:"drama_id"`
	Name       string    `json:"name" yaml:"name"`
	TotalViews int64     `json:"total_views" yaml:"total_views"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	Thumb      string    `json:"thumb" yaml:"thumb"`
	Rating     float64   `json:"rating" yaml:"rating"`
}

// DramasResponse mirrors the catalog payload.
type DramasResponse struct {
	Data []Drama `json:"data"`
}

type wireResponse struct {
	Data *[]wireDrama `json:"data"`
}

type wireDrama struct {
	DramaID    *int64   `json:"drama_id"`
	Name       *string  `json:"name"`
	TotalViews *int64   `json:"total_views"`
	CreatedAt  *string  `json:"created_at"`
	Thumb      *string  `json:"thumb"`
	Rating     *float64 `json:"rating"`
}

// DecodeDramas parses a raw catalog payload. Any schema mismatch wraps
// ErrDecode.
func DecodeDramas(data []byte) ([]Drama, error) {
	var wire wireResponse
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after payload", ErrDecode)
	}
	if wire.Data == nil {
		return nil, fmt.Errorf("%w: missing field data", ErrDecode)
	}

	dramas := make([]Drama, 0, len(*wire.Data))
	for i, w := range *wire.Data {
		d, err := w.drama()
		if err != nil {
			return nil, fmt.Errorf("%w: data[%d]: %v", ErrDecode, i, err)
		}
		dramas = append(dramas, d)
	}
	return dramas, nil
}

func (w wireDrama) drama() (Drama, error) {
	var missing []string
	if w.DramaID == nil {
		missing = append(missing, "drama_id")
	}
	if w.Name == nil {
		missing = append(missing, "name")
	}
	if w.TotalViews == nil {
		missing = append(missing, "total_views")
	}
	if w.CreatedAt == nil {
		missing = append(missing, "created_at")
	}
	if w.Thumb == nil {
		missing = append(missing, "thumb")
	}
	if w.Rating == nil {
		missing = append(missing, "rating")
	}
	if len(missing) > 0 {
		return Drama{}, fmt.Errorf("missing field %s", strings.Join(missing, ", "))
	}

	if *w.TotalViews < 0 {
		return Drama{}, fmt.Errorf("total_views %d is negative", *w.TotalViews)
	}
	created, err := time.Parse(TimestampLayout, *w.CreatedAt)
	if err != nil {
		return Drama{}, fmt.Errorf("created_at: %w", err)
	}
	if err := checkThumb(*w.Thumb); err != nil {
		return Drama{}, fmt.Errorf("thumb: %w", err)
	}

	return Drama{
		ID:         *w.DramaID,
		Name:       *w.Name,
		TotalViews: *w.TotalViews,
		CreatedAt:  created,
		Thumb:      *w.Thumb,
		Rating:     *w.Rating,
	}, nil
}

func checkThumb(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("empty url")
	}
	_, err := url.Parse(raw)
	return err
}
