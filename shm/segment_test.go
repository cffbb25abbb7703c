// File: shm/segment_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package shm

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/shmchan/api"
)

// testSegName builds a per-test segment name so parallel runs never collide.
func testSegName(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("test_%d_%d", os.Getpid(), time.Now().UnixNano())
}

func TestCreateSegmentRejectsDegenerateGeometry(t *testing.T) {
	_, err := CreateSegment(testSegName(t), 0, 8)
	require.ErrorIs(t, err, api.ErrInvalidCapacity)
	_, err = CreateSegment(testSegName(t), 8, 0)
	require.ErrorIs(t, err, api.ErrInvalidCapacity)
}

func TestCreateSegmentRefusesExistingName(t *testing.T) {
	name := testSegName(t)
	seg, err := CreateSegment(name, 4, 16)
	require.NoError(t, err)
	defer seg.Close()

	_, err = CreateSegment(name, 4, 16)
	require.ErrorIs(t, err, api.ErrResourceAllocation)
}

func TestOpenSegmentMissing(t *testing.T) {
	_, err := OpenSegment(testSegName(t))
	require.ErrorIs(t, err, api.ErrResourceAllocation)
}

func TestSegmentHeaderRoundTrip(t *testing.T) {
	name := testSegName(t)
	seg, err := CreateSegment(name, 8, 72)
	require.NoError(t, err)
	defer seg.Close()

	require.Equal(t, 8, seg.Capacity())
	require.Equal(t, 72, seg.SlotSize())
	require.NoError(t, seg.validateHeader())

	att, err := OpenSegment(name)
	require.NoError(t, err)
	require.Equal(t, 8, att.Capacity())
	require.Equal(t, 72, att.SlotSize())
	require.NoError(t, att.Close())
}

func TestOpenSegmentRejectsBadMagic(t *testing.T) {
	name := testSegName(t)
	seg, err := CreateSegment(name, 4, 16)
	require.NoError(t, err)
	defer seg.Close()

	copy(seg.mem[offMagic:offMagic+8], "garbage!")
	_, err = OpenSegment(name)
	require.ErrorIs(t, err, api.ErrResourceAllocation)
}

func TestOpenSegmentRejectsTruncatedFile(t *testing.T) {
	name := testSegName(t)
	path := segmentPath(name)
	require.NoError(t, os.WriteFile(path, make([]byte, 16), 0o600))
	defer os.Remove(path)

	_, err := OpenSegment(name)
	require.ErrorIs(t, err, api.ErrResourceAllocation)
}

func TestOwnerCloseRemovesBackingFile(t *testing.T) {
	name := testSegName(t)
	seg, err := CreateSegment(name, 4, 16)
	require.NoError(t, err)
	path := seg.Path()

	require.NoError(t, seg.Close())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "owner close must destroy the segment file")
}

func TestAttacherCloseKeepsBackingFile(t *testing.T) {
	name := testSegName(t)
	owner, err := CreateSegment(name, 4, 16)
	require.NoError(t, err)
	defer owner.Close()

	att, err := OpenSegment(name)
	require.NoError(t, err)
	require.NoError(t, att.Close())

	_, err = os.Stat(owner.Path())
	require.NoError(t, err, "attacher close must not destroy the segment")
}
