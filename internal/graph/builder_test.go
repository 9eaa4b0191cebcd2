package graph

import (
	"testing"

	"resannotate/internal/annotator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceParams(t *testing.T) {
	results := []*annotator.Result{
		{
			Path: "smali/Main.smali",
			References: []annotator.Reference{
				{File: "smali/Main.smali", Line: 4, ID: 0x7f010001, Type: "string", Name: "app_name"},
			},
		},
		{Path: "smali/Other.smali"},
	}

	params := referenceParams(results)
	require.Len(t, params, 1)
	assert.Equal(t, map[string]any{
		"file": "smali/Main.smali",
		"line": int64(4),
		"id":   int64(0x7f010001),
		"hex":  "0x7f010001",
		"type": "string",
		"name": "app_name",
	}, params[0])

	assert.Equal(t, []string{"smali/Main.smali", "smali/Other.smali"}, filePaths(results))
}

func TestNewBuilder_ClampsBatchSize(t *testing.T) {
	b := NewBuilder(nil, 0)
	assert.Equal(t, 1, b.batchSize)
}
