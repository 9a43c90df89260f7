package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyforge/sdlog/pkg/codec"
)

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Open(filepath.Join(t.TempDir(), "registry"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })
	return reg
}

func testFormat(t *testing.T, id uint8, name, columns, types string) *codec.MessageFormat {
	t.Helper()
	f, err := codec.NewMessageFormat(id, name)
	require.NoError(t, err)
	require.NoError(t, f.AddColumns(columns, types, ""))
	return f
}

func TestPutAndListFormats(t *testing.T) {
	reg := openTestRegistry(t)
	session := reg.NewSession()

	gps := testFormat(t, 3, "GPS", "Lat,Lng,Alt", "LLf")
	att := testFormat(t, 1, "ATT", "Roll,Pitch,Yaw", "ccc")

	require.NoError(t, reg.PutFormat(session, gps))
	require.NoError(t, reg.PutFormat(session, att))

	records, err := reg.Formats(session)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Iteration yields message id order.
	assert.Equal(t, uint8(1), records[0].ID)
	assert.Equal(t, "ATT", records[0].Name)
	assert.Equal(t, "ccc", records[0].Format)
	assert.Equal(t, "Roll,Pitch,Yaw", records[0].Columns)
	assert.Equal(t, uint16(6+3), records[0].Length)

	assert.Equal(t, uint8(3), records[1].ID)
	assert.Equal(t, "GPS", records[1].Name)
	assert.Equal(t, uint16(12+3), records[1].Length)
}

func TestPutFormatOverwrites(t *testing.T) {
	reg := openTestRegistry(t)
	session := reg.NewSession()

	require.NoError(t, reg.PutFormat(session, testFormat(t, 5, "OLD", "a", "b")))
	require.NoError(t, reg.PutFormat(session, testFormat(t, 5, "NEW", "a,b", "bb")))

	records, err := reg.Formats(session)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "NEW", records[0].Name)
	assert.Equal(t, "bb", records[0].Format)
}

func TestSessionsAreIsolated(t *testing.T) {
	reg := openTestRegistry(t)
	first := reg.NewSession()
	second := reg.NewSession()

	require.NoError(t, reg.PutFormat(first, testFormat(t, 1, "A", "x", "b")))
	require.NoError(t, reg.PutFormat(second, testFormat(t, 2, "B", "y", "b")))

	records, err := reg.Formats(first)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint8(1), records[0].ID)

	sessions, err := reg.Sessions()
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.Contains(t, sessions, first.String())
	assert.Contains(t, sessions, second.String())
}

func TestFormatsEmptySession(t *testing.T) {
	reg := openTestRegistry(t)

	records, err := reg.Formats(reg.NewSession())
	require.NoError(t, err)
	assert.Empty(t, records)
}
