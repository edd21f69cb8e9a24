package parser

import (
	"context"
	"encoding/xml"
	"io"

	"github.com/procflow/procflow/internal/model"
	"github.com/procflow/procflow/internal/pool"
)

// XES attribute keys (IEEE 1849-2016).
const (
	xesConceptName = "concept:name"
	xesTimestamp   = "time:timestamp"
	xesOrgResource = "org:resource"
)

// parser states for the XES token stream
type xesState uint8

const (
	xesInit xesState = iota
	xesInLog
	xesInTrace
	xesInEvent
)

// XESParser streams XES event logs with a token-level state machine. Only
// the log/trace/event skeleton and the standard concept/time/org
// attributes are interpreted; everything else becomes an event attribute.
type XESParser struct {
	cfg       Config
	eventPool *pool.EventPool
}

// NewXESParser creates a new XES parser.
func NewXESParser(cfg Config) *XESParser {
	return &XESParser{
		cfg:       cfg,
		eventPool: pool.NewEventPool(),
	}
}

// Parse implements the Parser interface.
func (p *XESParser) Parse(ctx context.Context, r io.Reader, out chan<- *model.Event) error {
	dec := xml.NewDecoder(r)

	state := xesInit
	var caseID string
	var current *model.Event
	eventNum := 0

	for {
		select {
		case <-ctx.Done():
			return ErrContextCanceled
		default:
		}

		tok, err := dec.Token()
		if err == io.EOF {
			if state == xesInit {
				return ErrEmptyInput
			}
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "log":
				state = xesInLog
			case "trace":
				state = xesInTrace
				caseID = ""
			case "event":
				state = xesInEvent
				eventNum++
				current = p.eventPool.Get()
				current.CaseID = caseID
			case "string", "date", "int", "float", "boolean", "id":
				key, value := xesKeyValue(t)
				switch state {
				case xesInTrace:
					if key == xesConceptName {
						caseID = value
					}
				case xesInEvent:
					if err := p.setEventField(current, key, value, eventNum); err != nil {
						p.eventPool.Put(current)
						return err
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "event":
				state = xesInTrace
				if current.CaseID == "" {
					// events outside a named trace are unusable
					p.eventPool.Put(current)
					current = nil
					continue
				}
				if current.Activity == "" {
					p.eventPool.Put(current)
					return &SchemaError{Column: xesConceptName}
				}
				select {
				case out <- current:
				case <-ctx.Done():
					p.eventPool.Put(current)
					return ErrContextCanceled
				}
				current = nil
			case "trace":
				state = xesInLog
			}
		}
	}
}

// setEventField routes a parsed XES attribute into the event.
func (p *XESParser) setEventField(ev *model.Event, key, value string, eventNum int) error {
	switch key {
	case xesConceptName:
		ev.Activity = value
	case xesTimestamp:
		nanos, err := pool.ParseTimestampNanos([]byte(value))
		if err != nil {
			return &ParseError{Line: eventNum, Value: value}
		}
		ev.Timestamp = nanos
	case xesOrgResource:
		ev.Resource = value
	default:
		if key != "" {
			ev.Attributes = append(ev.Attributes, model.Attribute{Key: key, Value: value})
		}
	}
	return nil
}

// xesKeyValue extracts the key/value attribute pair from an XES element.
func xesKeyValue(el xml.StartElement) (key, value string) {
	for _, attr := range el.Attr {
		switch attr.Name.Local {
		case "key":
			key = attr.Value
		case "value":
			value = attr.Value
		}
	}
	return key, value
}
