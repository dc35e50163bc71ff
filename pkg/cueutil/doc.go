// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The unit tables, user unit definitions and the configuration file all follow
// the same 3-step flow:
//
//  1. Compile the embedded schema
//  2. Compile the document and unify it with a schema definition
//  3. Validate and decode to a Go struct
//
// YAML and TOML documents are accepted too: Normalize converts them to JSON,
// which CUE compiles natively, so every format is validated by the same schema.
//
// # Usage
//
//	//go:embed units_schema.cue
//	var schemaBytes []byte
//
//	data, err := cueutil.Normalize("extra.yaml", raw)
//	if err != nil {
//	    return nil, err
//	}
//	result, err := cueutil.ParseAndDecode[Definitions](
//	    schemaBytes,
//	    data,
//	    "#Definitions",
//	    cueutil.WithFilename("extra.yaml"),
//	)
//	if err != nil {
//	    return nil, err  // Error includes CUE path for debugging
//	}
//	return result.Value, nil
package cueutil
