package munge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/geoknoesis/rdf-munge/rdf"
)

// ErrUnexpectedSubject is matched by UnexpectedSubjectError.
var ErrUnexpectedSubject = errors.New("unexpected subject")

// UnexpectedSubjectError reports a statement whose subject could not be tied
// to the entity being munged. It means the dump no longer has the expected
// shape, so the whole batch is rejected.
type UnexpectedSubjectError struct {
	Entity    string
	Statement rdf.Triple
}

func (e *UnexpectedSubjectError) Error() string {
	return fmt.Sprintf("unexpected subject munging %s: %s", e.Entity, e.Statement)
}

// Is makes errors.Is(err, ErrUnexpectedSubject) hold.
func (e *UnexpectedSubjectError) Is(target error) bool {
	return target == ErrUnexpectedSubject
}

// ErrConflictingVersions is matched by ConflictingVersionsError.
var ErrConflictingVersions = errors.New("conflicting format versions")

// ConflictingVersionsError reports an entity data header declaring more than
// one software version, which leaves the format handler to apply undecided.
type ConflictingVersionsError struct {
	Entity   string
	Versions []string
}

func (e *ConflictingVersionsError) Error() string {
	return fmt.Sprintf("conflicting format versions munging %s: %s", e.Entity, strings.Join(e.Versions, ", "))
}

// Is makes errors.Is(err, ErrConflictingVersions) hold.
func (e *ConflictingVersionsError) Is(target error) bool {
	return target == ErrConflictingVersions
}
