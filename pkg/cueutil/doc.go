// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Project files and the user configuration follow the same flow:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed project_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[Project](
//	    schema,
//	    data,
//	    "#Project",
//	    cueutil.WithFilename("metarule.cue"),
//	)
//	if err != nil {
//	    return nil, err // *ValidationError naming the offending CUE path
//	}
//	return result.Value, nil
package cueutil
