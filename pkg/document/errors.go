package document

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound        = errors.New("item not found")
	ErrOutOfRange      = errors.New("day out of range")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownProperty = errors.New("unknown property")
	ErrInvalidValue    = errors.New("invalid property value")
)

// OrphanError is returned when shrinking a plan would drop scheduled readings.
type OrphanError struct {
	Duration int
	Days     []int
}

func (e *OrphanError) Error() string {
	days := make([]string, len(e.Days))
	for i, d := range e.Days {
		days[i] = fmt.Sprint(d)
	}
	return fmt.Sprintf("cannot shrink plan to %d days: readings scheduled on day %s", e.Duration, strings.Join(days, ", "))
}

// Is makes OrphanError match ErrOutOfRange.
func (e *OrphanError) Is(target error) bool {
	return target == ErrOutOfRange
}

func newOrphanError(duration int, readingDays []int) *OrphanError {
	var orphans []int
	for _, d := range readingDays {
		if d > duration {
			orphans = append(orphans, d)
		}
	}
	if len(orphans) == 0 {
		return nil
	}
	sort.Ints(orphans)
	return &OrphanError{Duration: duration, Days: orphans}
}
