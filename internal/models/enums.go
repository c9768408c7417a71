package models

import (
	"strings"

	"github.com/mroshb/filmorate/pkg/errors"
)

type DirectorSort string

const (
	DirectorSortYear  DirectorSort = "year"
	DirectorSortLikes DirectorSort = "likes"
)

// ParseDirectorSort accepts "year" or "likes" in any case.
func ParseDirectorSort(s string) (DirectorSort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(DirectorSortYear):
		return DirectorSortYear, nil
	case string(DirectorSortLikes):
		return DirectorSortLikes, nil
	}
	return "", errors.InvalidArgument("unknown sort key %q", s)
}

type SearchField string

const (
	SearchByTitle    SearchField = "title"
	SearchByDirector SearchField = "director"
)

// SearchFields is the explicit set of fields a search matches against.
type SearchFields map[SearchField]bool

func NewSearchFields(fields ...SearchField) SearchFields {
	set := make(SearchFields, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func (s SearchFields) Has(f SearchField) bool {
	return s[f]
}

func (s SearchFields) Empty() bool {
	return !s.Has(SearchByTitle) && !s.Has(SearchByDirector)
}

// ParseSearchFields parses a comma separated list such as "title,director".
// An empty string yields an empty set.
func ParseSearchFields(s string) (SearchFields, error) {
	fields := NewSearchFields()
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "":
			continue
		case string(SearchByTitle):
			fields[SearchByTitle] = true
		case string(SearchByDirector):
			fields[SearchByDirector] = true
		default:
			return nil, errors.InvalidArgument("unknown search field %q", part)
		}
	}
	return fields, nil
}

func ParseEventType(s string) (EventType, error) {
	switch t := EventType(strings.ToUpper(strings.TrimSpace(s))); t {
	case EventTypeLike, EventTypeReview, EventTypeFriend:
		return t, nil
	}
	return "", errors.InvalidArgument("unknown event type %q", s)
}

func ParseOperation(s string) (Operation, error) {
	switch op := Operation(strings.ToUpper(strings.TrimSpace(s))); op {
	case OperationAdd, OperationRemove, OperationUpdate:
		return op, nil
	}
	return "", errors.InvalidArgument("unknown operation %q", s)
}

// ValidateID rejects the zero id. name is used in the error message.
func ValidateID(name string, id uint) error {
	if id == 0 {
		return errors.InvalidArgument("%s must be positive", name)
	}
	return nil
}
