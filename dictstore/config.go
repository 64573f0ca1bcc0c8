package dictstore

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/wkalt/tlmdict/links"
)

// DefaultHeaderSize is the length of the CCSDS header in bytes, applied to
// messages whose configuration does not declare a header size.
const DefaultHeaderSize = 12

// StreamConfig is the JSON form of the link/message configuration, the
// second boundary format the scheduling collaborator can supply. A message
// may omit headerSize to get the CCSDS default; an explicit zero is
// honored.
type StreamConfig struct {
	Streams []streamConfig `json:"streams"`
}

type streamConfig struct {
	Name     string          `json:"name"`
	Messages []messageConfig `json:"messages"`
}

type messageConfig struct {
	Name       string       `json:"name"`
	IDName     string       `json:"idName"`
	ID         string       `json:"id"`
	HeaderSize *int         `json:"headerSize"`
	Rate       int          `json:"rate"`
	Links      []links.Link `json:"links"`
}

// ReadStreamConfig decodes a stream configuration.
func ReadStreamConfig(r io.Reader) ([]links.Stream, error) {
	var config StreamConfig
	if err := json.NewDecoder(r).Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode stream config: %w", err)
	}
	streams := make([]links.Stream, 0, len(config.Streams))
	for _, sc := range config.Streams {
		stream := links.Stream{Name: sc.Name}
		for _, mc := range sc.Messages {
			header := DefaultHeaderSize
			if mc.HeaderSize != nil {
				header = *mc.HeaderSize
			}
			stream.Messages = append(stream.Messages, links.Message{
				Name:       mc.Name,
				IDName:     mc.IDName,
				ID:         mc.ID,
				HeaderSize: header,
				Rate:       mc.Rate,
				Links:      mc.Links,
			})
		}
		if err := stream.Validate(); err != nil {
			return nil, fmt.Errorf("invalid stream %s: %w", stream.Name, err)
		}
		streams = append(streams, stream)
	}
	return streams, nil
}

// ReadStreamConfigFile reads a stream configuration from a file.
func ReadStreamConfigFile(path string) ([]links.Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream config: %w", err)
	}
	defer f.Close()
	return ReadStreamConfig(f)
}
