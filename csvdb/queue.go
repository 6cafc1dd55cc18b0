package csvdb

import (
	"errors"
	"fmt"
	"strings"
)

// QueueItem is a point to be resolved: a name, a kind of the source
// (ip, city_name, coordinate) and a raw value. Coordinates are written
// as "lat,lon" so they have to be quoted.
type QueueItem struct {
	Name  string
	Kind  string
	Value string
}

// NewQueueItem creates new queue item from the row fields.
func NewQueueItem(data []string) (QueueItem, error) {
	if len(data) != 3 {
		return QueueItem{}, fmt.Errorf("expected 3 fields, got %d", len(data))
	}

	item := QueueItem{
		Name:  strings.TrimSpace(data[0]),
		Kind:  strings.TrimSpace(data[1]),
		Value: strings.TrimSpace(data[2]),
	}

	switch {
	case item.Name == "":
		return QueueItem{}, errors.New("name is empty")
	case item.Kind == "":
		return QueueItem{}, errors.New("kind is empty")
	case item.Value == "":
		return QueueItem{}, errors.New("value is empty")
	}

	return item, nil
}
