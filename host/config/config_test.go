package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"potbuzz/core"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, core.DefaultConfig(), cfg.Firmware())
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "potbuzz.yaml")
	data := `
serial:
  port: /dev/ttyACM1
mqtt:
  broker: tcp://localhost:1883
schedule:
  report: reading
  report_interval: 50
sim:
  speed: 20
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM1", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.Baud)
	assert.Equal(t, 100*time.Millisecond, cfg.Serial.ReadTimeout)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "potbuzz/frequency", cfg.MQTT.Topic)
	assert.Equal(t, 20.0, cfg.Sim.Speed)
	assert.Equal(t, 128*time.Microsecond, cfg.Sim.OverflowPeriod)

	fw := cfg.Firmware()
	assert.Equal(t, core.ReportReading, fw.Report)
	assert.Equal(t, uint16(50), fw.ReportInterval)
	assert.Equal(t, int16(50), fw.ReportDelay)
	assert.Equal(t, uint16(core.OverflowsPerTickAVR), fw.OverflowsPerTick)
}

func TestLoadRejectsUnknownReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schedule:\n  report: volume\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serial: [\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := Default()
	cfg.Schedule.ADCInterval = 10
	cfg.Schedule.UseLED = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
