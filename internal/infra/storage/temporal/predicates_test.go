package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PrepRoomService/pkg/psqlbuilder"
)

func TestAsOf(t *testing.T) {
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	query, args, err := psqlbuilder.Select("id").From("prep_rooms").Where(AsOf(ts)).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM prep_rooms WHERE (valid_from <= $1 AND (valid_to IS NULL OR valid_to > $2))", query)
	assert.Equal(t, []interface{}{ts, ts}, args)
}

func TestCloseVersion(t *testing.T) {
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	query, args, err := CloseVersion(psqlbuilder.Update("prep_rooms"), "room_id", "fh-1:R1", 3, ts).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE prep_rooms SET valid_to = $1, is_current = $2 WHERE is_current = $3 AND room_id = $4 AND version = $5", query)
	assert.Equal(t, []interface{}{ts, false, true, "fh-1:R1", 3}, args)
}
