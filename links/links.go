package links

/*
links models the assignment of dictionary variables to telemetry messages. A
link is a named set of variable paths sampled together at one rate, resolved
against a single root structure. A message carries one or more links, a fixed
header size, and an externally-assigned message ID. Messages are pure
bookkeeping: validation here is set-membership and rate arithmetic, nothing
layout-aware.
*/

////////////////////////////////////////////////////////////////////////////////

// Link is a named, ordered set of variable path references bound to one root
// structure at one sample rate.
type Link struct {
	Name      string   `json:"name"`
	Root      string   `json:"root"`
	Rate      int      `json:"rate"`
	Variables []string `json:"variables"`
}

// Message is a telemetry or command payload composed of links. IDName and ID
// are opaque strings supplied by the external configuration collaborator.
// Rate is the message's stream rate; every link rate must evenly divide it.
type Message struct {
	Name       string `json:"name"`
	IDName     string `json:"idName"`
	ID         string `json:"id"`
	HeaderSize int    `json:"headerSize"`
	Rate       int    `json:"rate"`
	Links      []Link `json:"links"`
}

// Stream is a named data stream (rate column in the legacy tool) grouping the
// messages scheduled on it.
type Stream struct {
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}

// Validate checks that no variable path is assigned to two links of the
// message and that each link's rate is consistent with the message rate.
func (m Message) Validate() error {
	seen := make(map[string]string)
	for _, l := range m.Links {
		if l.Rate <= 0 || m.Rate%l.Rate != 0 {
			return RateMismatchError{Message: m.Name, Link: l.Name, LinkRate: l.Rate, MessageRate: m.Rate}
		}
		for _, v := range l.Variables {
			key := l.Root + "/" + v
			if prev, ok := seen[key]; ok {
				return DuplicateAssignmentError{Message: m.Name, Variable: v, First: prev, Second: l.Name}
			}
			seen[key] = l.Name
		}
	}
	return nil
}

// Validate checks every message of the stream.
func (s Stream) Validate() error {
	for _, m := range s.Messages {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}
