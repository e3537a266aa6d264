package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/json_types"
)

func mustTime(t *testing.T, s string) json_types.Time {
	t.Helper()
	v, err := json_types.ParseTime(s)
	require.NoError(t, err)
	return v
}
