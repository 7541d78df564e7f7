package screentime

import (
	"errors"
	"fmt"

	"screenBreak/business/clustering"
	"screenBreak/domain"
)

// ShapeError is raised by the normalizer and the cluster assigner.
type ShapeError = clustering.ShapeError

// EmptyReferenceError means the reference dataset had no usable rows left
// after cleaning, so there is nothing to cluster against.
type EmptyReferenceError struct {
	Source string
}

func (e *EmptyReferenceError) Error() string {
	if e.Source == "" {
		return "reference dataset has no usable rows"
	}
	return fmt.Sprintf("reference dataset %q has no usable rows", e.Source)
}

func (e *EmptyReferenceError) Kind() string {
	return "empty_reference"
}

// UnknownClusterError means clustering produced an id the recommendation
// table has no entry for. It points at a table/K mismatch.
type UnknownClusterError struct {
	ClusterID int
}

func (e *UnknownClusterError) Error() string {
	return fmt.Sprintf("no recommendation configured for cluster %d", e.ClusterID)
}

func (e *UnknownClusterError) Kind() string {
	return "unknown_cluster"
}

// ErrorKind classifies err for metrics and API responses.
func ErrorKind(err error) string {
	var kinded interface{ Kind() string }
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidUsage):
		return "invalid_observation"
	case errors.As(err, &kinded):
		return kinded.Kind()
	default:
		return "internal"
	}
}
