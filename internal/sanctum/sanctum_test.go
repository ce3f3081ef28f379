package sanctum

import (
	"testing"

	"github.com/stretchr/testify/require"

	dErrors "sanctum/pkg/domain-errors"
)

func TestClassify(t *testing.T) {
	require.Equal(t, LayerKernel, Classify("sanctum/internal/kernel"))
	require.Equal(t, LayerCore, Classify("sanctum/internal/core/translate"))
	require.Equal(t, LayerInterface, Classify("sanctum/internal/adapters/ai"))
	require.Equal(t, LayerUnknown, Classify("sanctum/internal/audit"))
	require.Equal(t, LayerUnknown, Classify("github.com/go-chi/chi/v5"))
}

func TestCheckImport(t *testing.T) {
	matrix := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"interface may not import kernel", "sanctum/internal/adapters/human", "sanctum/internal/kernel", false},
		{"core may import kernel", "sanctum/internal/core/gateway", "sanctum/internal/kernel", true},
		{"kernel to kernel is same layer", "sanctum/internal/kernel/a", "sanctum/internal/kernel/b", true},
		{"kernel may not import core", "sanctum/internal/kernel", "sanctum/internal/core/validate", false},
		{"kernel may not import interface", "sanctum/internal/kernel", "sanctum/internal/adapters/ai", false},
		{"core may not import interface", "sanctum/internal/core/invoke", "sanctum/internal/adapters/models", false},
		{"interface may import core", "sanctum/internal/adapters/machine", "sanctum/internal/core/translate", true},
		{"unclassified importers are never checked", "sanctum/internal/audit", "sanctum/internal/kernel", true},
		{"unclassified targets are never checked", "sanctum/internal/core/gateway", "hash/fnv", true},
	}

	for _, tc := range matrix {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEnforcer()
			err := e.CheckImport(tc.from, tc.to)
			if tc.allowed {
				require.NoError(t, err)
				require.Empty(t, e.Violations())
			} else {
				require.Error(t, err)
				require.True(t, dErrors.Is(err, dErrors.CodeSanctum))
			}
		})
	}
}

func TestViolationLogGrowsByOnePerViolation(t *testing.T) {
	e := NewEnforcer()

	require.Error(t, e.CheckImport("sanctum/internal/adapters/x", "sanctum/internal/kernel"))
	require.Len(t, e.Violations(), 1)

	require.Error(t, e.CheckImport("sanctum/internal/kernel", "sanctum/internal/core/x"))
	require.Len(t, e.Violations(), 2)

	// Allowed edges never touch the log.
	require.NoError(t, e.CheckImport("sanctum/internal/core/x", "sanctum/internal/kernel"))
	require.Len(t, e.Violations(), 2)
}

func TestAnalyzeSource(t *testing.T) {
	t.Run("disallowed edge is reported", func(t *testing.T) {
		src := `package human

import (
	"sanctum/internal/kernel"
	"sanctum/internal/core/translate"
)

var _ = kernel.Default
var _ = translate.New
`
		violations, err := AnalyzeSource("sanctum/internal/adapters/human/human.go", src)
		require.NoError(t, err)
		require.Len(t, violations, 1)
		require.Contains(t, violations[0], "kernel")
	})

	t.Run("core importing kernel is clean", func(t *testing.T) {
		src := `package gateway

import "sanctum/internal/kernel"

var _ = kernel.Default
`
		violations, err := AnalyzeSource("sanctum/internal/core/gateway/gateway.go", src)
		require.NoError(t, err)
		require.Empty(t, violations)
	})

	t.Run("unclassified files are skipped", func(t *testing.T) {
		src := `package main

import "sanctum/internal/adapters/ai"

var _ = ai.New
`
		violations, err := AnalyzeSource("sanctum/cmd/server/main.go", src)
		require.NoError(t, err)
		require.Empty(t, violations)
	})

	t.Run("stdlib and third-party imports are never checked", func(t *testing.T) {
		src := `package kernel

import (
	"fmt"
	"github.com/google/uuid"
)

var _ = fmt.Sprintf
var _ = uuid.NewString
`
		violations, err := AnalyzeSource("sanctum/internal/kernel/kernel.go", src)
		require.NoError(t, err)
		require.Empty(t, violations)
	})

	t.Run("unparsable source errors", func(t *testing.T) {
		_, err := AnalyzeSource("sanctum/internal/kernel/broken.go", "not go source")
		require.Error(t, err)
	})
}

func TestAnalyzeTreeOnOwnSource(t *testing.T) {
	// The repository itself must honor the topology it enforces.
	violations, err := AnalyzeTree("../..")
	require.NoError(t, err)
	require.Empty(t, violations)
}
