package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/botarena/config"
	"github.com/plus3/botarena/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func smallBattle() config.Battle {
	cfg := config.Default()
	cfg.Teams.Red.Count = 2
	cfg.Teams.Blue.Count = 2
	return cfg
}

func TestRunBattleIsRepeatable(t *testing.T) {
	opts := runOptions{Steps: 240, Samples: 2}

	first, err := runBattle(smallBattle(), opts)
	require.NoError(t, err)
	second, err := runBattle(smallBattle(), opts)
	require.NoError(t, err)

	assert.Equal(t, 240, first.Records)
	assert.Equal(t, first.Digest, second.Digest)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.BattleID, second.BattleID)
	assert.InDelta(t, 4.0, first.SimSeconds, 1e-9)
}

func TestRunBattleSeedChangesTrace(t *testing.T) {
	opts := runOptions{Steps: 30, Samples: 2}
	a, err := runBattle(smallBattle(), opts)
	require.NoError(t, err)

	cfg := smallBattle()
	cfg.Seed = 99
	b, err := runBattle(cfg, opts)
	require.NoError(t, err)

	assert.NotEqual(t, a.Digest, b.Digest)
	assert.NotEqual(t, a.BattleID, b.BattleID)
}

func TestVerifyAcceptsSphereWorld(t *testing.T) {
	first, second, err := verify(smallBattle(), runOptions{Steps: 120, Samples: 1, Spheres: true})
	require.NoError(t, err)
	assert.Equal(t, first.Digest, second.Digest)
}

func TestTraceDecodes(t *testing.T) {
	var buf bytes.Buffer
	_, err := runBattle(smallBattle(), runOptions{Steps: 5, Samples: 3, Trace: &buf})
	require.NoError(t, err)

	dec := msgpack.NewDecoder(&buf)
	for frame := uint64(1); frame <= 5; frame++ {
		var rec sim.TraceRecord
		require.NoError(t, dec.Decode(&rec))
		assert.Equal(t, frame, rec.Frame)
		assert.Len(t, rec.Samples, 3)
	}
}

func TestReportGenerate(t *testing.T) {
	res, err := runBattle(smallBattle(), runOptions{Steps: 10})
	require.NoError(t, err)

	var out bytes.Buffer
	report := &Report{Result: res, Second: res, Verified: true, TopN: 3}
	require.NoError(t, report.Generate(&out))

	text := out.String()
	assert.Contains(t, text, res.BattleID)
	assert.Contains(t, text, "# Arena Battle Report")
	assert.Contains(t, text, "(match)")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "battle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\nfriendly_fire: true\n"), 0o644))
	t.Setenv("ARENA_SEED", "11")

	cfg, err := loadConfig(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, uint64(11), cfg.Seed)
	assert.True(t, cfg.FriendlyFire)
}

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3, 1, 2}}
	s.Finalize()
	assert.Equal(t, time.Duration(1), s.Min)
	assert.Equal(t, time.Duration(3), s.Max)
	assert.Equal(t, time.Duration(2), s.Avg)
}

func TestRealtimeMatchesBatch(t *testing.T) {
	cfg := smallBattle()
	cfg.Step = 0.005
	opts := runOptions{Steps: 80, Samples: 2, Spheres: true}

	batch, err := runBattle(cfg, opts)
	require.NoError(t, err)

	opts.Realtime = true
	live, err := runBattle(cfg, opts)
	require.NoError(t, err)

	assert.Equal(t, 80, live.Records)
	assert.Equal(t, batch.Digest, live.Digest)
	assert.Equal(t, batch.Fingerprint, live.Fingerprint)
	assert.InDelta(t, 0.4, live.SimSeconds, 1e-9)
}
