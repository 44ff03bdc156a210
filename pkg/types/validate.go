// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Validate checks that every position of t is filled and the object kind
// is known.
func (t Triple) Validate() error {
	switch {
	case t.Subject == "":
		return errors.New("triple has empty subject")
	case t.Predicate == "":
		return errors.New("triple has empty predicate")
	case t.Object.URI == "":
		return errors.New("triple has empty object")
	case !t.Object.Kind.Valid():
		return fmt.Errorf("triple object has unknown kind %q", t.Object.Kind)
	}
	return nil
}

func validateURIData(d URIData) error {
	var errs []error
	for uri, rec := range d {
		if uri == "" {
			errs = append(errs, errors.New("uri data has empty key"))
			continue
		}
		if !rec.Kind.Valid() {
			errs = append(errs, fmt.Errorf("uri data %s: unknown kind %q", uri, rec.Kind))
		}
	}
	return errors.Join(errs...)
}

func validateSet(name string, s TripleSet) error {
	var errs []error
	for _, t := range s.Sorted() {
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", name, t, err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks a report received from outside the process. A URI in
// Structure without a URIData entry is allowed.
func (r NodeStructureReport) Validate() error {
	return errors.Join(
		validateSet("structure", r.Structure),
		validateURIData(r.URIData),
	)
}

// Validate checks every triple and the Intersect ⊆ Union invariant.
func (r AggregateResult) Validate() error {
	var subsetErr error
	if !r.Intersect.IsSubsetOf(r.Union) {
		subsetErr = errors.New("intersect is not a subset of union")
	}
	return errors.Join(
		validateSet("union", r.Union),
		validateSet("intersect", r.Intersect),
		validateURIData(r.URIData),
		subsetErr,
	)
}
