package gamesdk

import (
	"errors"
	"strings"
	"testing"

	"github.com/opd-ai/gamesdk/limits"
	"github.com/opd-ai/gamesdk/status"
	"github.com/opd-ai/gamesdk/textbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	op    string
	key   string
	value string
	arg   int64
}

// recordingTx implements every native transaction interface and records
// the calls it receives. failOn makes one operation report a failure.
type recordingTx struct {
	calls  []recordedCall
	failOn string
	code   status.Code
	raw    [][]byte
}

func (r *recordingTx) record(c recordedCall) status.Code {
	r.calls = append(r.calls, c)
	if c.op == r.failOn {
		return r.code
	}
	return status.Ok
}

func (r *recordingTx) ops() []string {
	ops := make([]string, len(r.calls))
	for i, c := range r.calls {
		ops[i] = c.op
	}
	return ops
}

func (r *recordingTx) SetType(lobbyType int32) status.Code {
	return r.record(recordedCall{op: "SetType", arg: int64(lobbyType)})
}

func (r *recordingTx) SetOwner(ownerID int64) status.Code {
	return r.record(recordedCall{op: "SetOwner", arg: ownerID})
}

func (r *recordingTx) SetCapacity(capacity uint32) status.Code {
	return r.record(recordedCall{op: "SetCapacity", arg: int64(capacity)})
}

func (r *recordingTx) SetLocked(locked bool) status.Code {
	var arg int64
	if locked {
		arg = 1
	}
	return r.record(recordedCall{op: "SetLocked", arg: arg})
}

func (r *recordingTx) SetMetadata(key, value []byte) status.Code {
	r.raw = append(r.raw, key, value)
	return r.record(recordedCall{op: "SetMetadata", key: textbuf.Decode(key), value: textbuf.Decode(value)})
}

func (r *recordingTx) DeleteMetadata(key []byte) status.Code {
	r.raw = append(r.raw, key)
	return r.record(recordedCall{op: "DeleteMetadata", key: textbuf.Decode(key)})
}

func (r *recordingTx) Filter(key []byte, comparison, cast int32, value []byte) status.Code {
	return r.record(recordedCall{op: "Filter", key: textbuf.Decode(key), value: textbuf.Decode(value), arg: int64(comparison)})
}

func (r *recordingTx) Sort(key []byte, cast int32, value []byte) status.Code {
	return r.record(recordedCall{op: "Sort", key: textbuf.Decode(key), value: textbuf.Decode(value)})
}

func (r *recordingTx) Limit(limit uint32) status.Code {
	return r.record(recordedCall{op: "Limit", arg: int64(limit)})
}

func (r *recordingTx) Distance(distance int32) status.Code {
	return r.record(recordedCall{op: "Distance", arg: int64(distance)})
}

func TestLobbyTransactionScalarCalls(t *testing.T) {
	tests := []struct {
		name  string
		build func(*LobbyTransaction)
		want  []string
	}{
		{
			name:  "empty",
			build: func(*LobbyTransaction) {},
			want:  []string{},
		},
		{
			name:  "capacity only",
			build: func(tx *LobbyTransaction) { tx.Capacity(8) },
			want:  []string{"SetCapacity"},
		},
		{
			name: "replayed in fixed order",
			build: func(tx *LobbyTransaction) {
				tx.Locked(true).Capacity(4).Owner(7).Kind(LobbyKindPublic)
			},
			want: []string{"SetType", "SetOwner", "SetCapacity", "SetLocked"},
		},
		{
			name: "repeated setter keeps last value",
			build: func(tx *LobbyTransaction) {
				tx.Capacity(2).Capacity(6)
			},
			want: []string{"SetCapacity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := NewLobbyTransaction()
			tt.build(tx)

			native := &recordingTx{}
			require.NoError(t, tx.process(native))
			assert.Equal(t, tt.want, native.ops())
		})
	}
}

func TestLobbyTransactionLastValueWins(t *testing.T) {
	tx := NewLobbyTransaction().Capacity(2).Capacity(6)
	native := &recordingTx{}
	require.NoError(t, tx.process(native))
	require.Len(t, native.calls, 1)
	assert.Equal(t, int64(6), native.calls[0].arg)
}

func TestMetadataLastWriterWins(t *testing.T) {
	tests := []struct {
		name  string
		build func(*LobbyTransaction)
		want  recordedCall
	}{
		{
			name:  "upsert then delete",
			build: func(tx *LobbyTransaction) { tx.AddMetadata("mode", "ranked").DeleteMetadata("mode") },
			want:  recordedCall{op: "DeleteMetadata", key: "mode"},
		},
		{
			name:  "delete then upsert",
			build: func(tx *LobbyTransaction) { tx.DeleteMetadata("mode").AddMetadata("mode", "casual") },
			want:  recordedCall{op: "SetMetadata", key: "mode", value: "casual"},
		},
		{
			name:  "terminated and plain keys are the same key",
			build: func(tx *LobbyTransaction) { tx.AddMetadata("mode", "a").AddMetadata("mode\x00", "b") },
			want:  recordedCall{op: "SetMetadata", key: "mode", value: "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := NewLobbyTransaction()
			tt.build(tx)

			native := &recordingTx{}
			require.NoError(t, tx.process(native))
			assert.Equal(t, []recordedCall{tt.want}, native.calls)
		})
	}
}

func TestMetadataIsSentTerminated(t *testing.T) {
	key := "map"
	value := "harbor"
	tx := NewLobbyTransaction().AddMetadata(key, value)

	native := &recordingTx{}
	require.NoError(t, tx.process(native))
	require.Len(t, native.raw, 2)
	assert.Equal(t, []byte("map\x00"), native.raw[0])
	assert.Equal(t, []byte("harbor\x00"), native.raw[1])
	assert.Equal(t, "map", key, "caller text must not change")
}

func TestLobbyTransactionAbortsOnFirstFailure(t *testing.T) {
	tx := NewLobbyTransaction().
		Kind(LobbyKindPrivate).
		Capacity(4).
		Locked(true).
		AddMetadata("mode", "ranked")

	native := &recordingTx{failOn: "SetCapacity", code: status.InvalidPayload}
	err := tx.process(native)
	require.Error(t, err)

	code, ok := status.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, status.InvalidPayload, code)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "set lobby capacity", opErr.Op)

	assert.Equal(t, []string{"SetType", "SetCapacity"}, native.ops())
}

func TestMetadataTextIsForwardedUnchecked(t *testing.T) {
	tests := []struct {
		name   string
		tx     *LobbyTransaction
		wantOp string
		key    string
		value  string
	}{
		{
			name:   "oversize key",
			tx:     NewLobbyTransaction().AddMetadata(strings.Repeat("k", limits.MetadataKey), "v"),
			wantOp: "SetMetadata",
			key:    strings.Repeat("k", limits.MetadataKey),
			value:  "v",
		},
		{
			name:   "oversize value",
			tx:     NewLobbyTransaction().AddMetadata("k", strings.Repeat("v", limits.MetadataValue)),
			wantOp: "SetMetadata",
			key:    "k",
			value:  strings.Repeat("v", limits.MetadataValue),
		},
		{
			name:   "empty key delete",
			tx:     NewLobbyTransaction().DeleteMetadata(""),
			wantOp: "DeleteMetadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native := &recordingTx{}
			require.NoError(t, tt.tx.process(native))
			require.Equal(t, []recordedCall{{op: tt.wantOp, key: tt.key, value: tt.value}}, native.calls)
		})
	}
}

func TestOversizeMetadataNativeFailure(t *testing.T) {
	tx := NewLobbyTransaction().AddMetadata(strings.Repeat("k", limits.MetadataKey), "v")
	native := &recordingTx{failOn: "SetMetadata", code: status.InvalidPayload}

	err := tx.process(native)
	require.Error(t, err)
	assert.Equal(t, []string{"SetMetadata"}, native.ops())

	var statusErr *status.Error
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, status.InvalidPayload, statusErr.Code)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestSearchKeyIsForwardedUnchecked(t *testing.T) {
	key := strings.Repeat("k", limits.MetadataKey)
	query := NewSearchQuery().Filter(key, ComparisonEqual, CastString, "x")
	native := &recordingTx{failOn: "Filter", code: status.InvalidPayload}

	err := query.process(native)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	require.Len(t, native.calls, 1)
	assert.Equal(t, key, native.calls[0].key)
}

func TestMetadataAtCapacityIsAccepted(t *testing.T) {
	key := strings.Repeat("k", limits.MetadataKey-1)
	tx := NewLobbyTransaction().AddMetadata(key, "")

	native := &recordingTx{}
	require.NoError(t, tx.process(native))
	require.Len(t, native.calls, 1)
	assert.Equal(t, key, native.calls[0].key)
}

func TestMemberTransaction(t *testing.T) {
	tx := NewLobbyMemberTransaction().
		AddMetadata("role", "tank").
		AddMetadata("ready", "no").
		DeleteMetadata("ready")

	native := &recordingTx{}
	require.NoError(t, tx.process(native))
	assert.ElementsMatch(t, []recordedCall{
		{op: "SetMetadata", key: "role", value: "tank"},
		{op: "DeleteMetadata", key: "ready"},
	}, native.calls)
}

func TestSearchQueryReplayOrder(t *testing.T) {
	q := NewSearchQuery().
		Distance(DistanceGlobal).
		Limit(5).
		Sort("metadata.elo", CastNumber, "1200").
		Filter("metadata.mode", ComparisonEqual, CastString, "ranked").
		Filter("metadata.mode", ComparisonNotEqual, CastString, "casual")

	native := &recordingTx{}
	require.NoError(t, q.process(native))
	assert.Equal(t, []recordedCall{
		{op: "Filter", key: "metadata.mode", value: "casual", arg: int64(ComparisonNotEqual)},
		{op: "Sort", key: "metadata.elo", value: "1200"},
		{op: "Limit", arg: 5},
		{op: "Distance", arg: int64(DistanceGlobal)},
	}, native.calls)
}

func TestConsumeOnce(t *testing.T) {
	tx := NewLobbyTransaction()
	require.NoError(t, tx.consume())
	assert.ErrorIs(t, tx.consume(), ErrTransactionConsumed)

	mtx := NewLobbyMemberTransaction()
	require.NoError(t, mtx.consume())
	assert.ErrorIs(t, mtx.consume(), ErrTransactionConsumed)

	q := NewSearchQuery()
	require.NoError(t, q.consume())
	assert.ErrorIs(t, q.consume(), ErrTransactionConsumed)
}
