package model

import "time"

type FileKind string

const (
	FileKindPrice FileKind = "price"
	FileKindPromo FileKind = "promo"
)

// RawFile describes one discovered export file. It exists only for the
// duration of a pipeline run and is never persisted.
type RawFile struct {
	Name        string
	StoreID     string
	Kind        FileKind
	Full        bool
	RetrievedAt time.Time
}
