package store

import _ "embed"

// Schema holds the DDL for the stakeholder tables. Integration tests apply
// it to a fresh database before running.
//
//go:embed schema.sql
var Schema string
