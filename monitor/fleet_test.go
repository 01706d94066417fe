package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinmclean/codebot"
	"github.com/calvinmclean/codebot/telemetry"
)

var start = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func TestRobotStatus(t *testing.T) {
	tests := []struct {
		name     string
		robot    Robot
		now      time.Time
		expected Status
	}{
		{
			"NoBattery",
			Robot{},
			start,
			StatusInactiveBattery,
		},
		{
			"StaleBattery",
			Robot{LastBattery: start, FirstBattery: start},
			start.Add(6 * time.Second),
			StatusInactiveBattery,
		},
		{
			"FreshBatteryNoProgram",
			Robot{LastBattery: start, FirstBattery: start},
			start.Add(5 * time.Second),
			StatusIdle,
		},
		{
			"NeverProgrammed",
			Robot{LastBattery: start.Add(181 * time.Second), FirstBattery: start},
			start.Add(183 * time.Second),
			StatusInactive,
		},
		{
			"RecentProgram",
			Robot{LastBattery: start.Add(200 * time.Second), FirstBattery: start, LastProgram: start.Add(30 * time.Second)},
			start.Add(201 * time.Second),
			StatusActive,
		},
		{
			"OldProgram",
			Robot{LastBattery: start.Add(300 * time.Second), FirstBattery: start, LastProgram: start.Add(30 * time.Second)},
			start.Add(301 * time.Second),
			StatusInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.robot.Status(tt.now))
		})
	}
}

func TestProgramDuration(t *testing.T) {
	assert.Equal(t, 4*time.Second, ProgramDuration(nil))
	assert.Equal(t, 9500*time.Millisecond, ProgramDuration(codebot.Program{
		codebot.MotionForward,
		codebot.MotionReverse,
		codebot.MotionPivotLeft,
		codebot.MotionForward,
	}))
}

func TestFleetObserve(t *testing.T) {
	f := NewFleet()

	r, ok := f.Observe(telemetry.Classify("0xA1 3.85"), start)
	require.True(t, ok)
	assert.Equal(t, "0xA1", r.DeviceID)
	assert.InDelta(t, 3.85, r.Voltage, 0.001)
	assert.Equal(t, start, r.FirstBattery)
	assert.Equal(t, 1, r.DataCount)

	r, ok = f.Observe(telemetry.Classify("0xA1 PLAY forward left"), start.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, 2, r.DataCount)
	assert.Equal(t, start, r.FirstSeen)
	assert.Equal(t, start.Add(time.Second), r.LastProgram)
	assert.Equal(t, start.Add(time.Second+6500*time.Millisecond), r.RunningUntil)
	assert.True(t, r.Running(start.Add(2*time.Second)))
	require.Len(t, r.Events, 1)
	assert.Equal(t, codebot.Program{codebot.MotionForward, codebot.MotionPivotLeft}, r.Events[0].Program)

	r, ok = f.Observe(telemetry.Classify("0xA1 hello"), start.Add(2*time.Second))
	require.True(t, ok)
	assert.Equal(t, 3, r.DataCount)
	assert.InDelta(t, 3.85, r.Voltage, 0.001)
}

func TestFleetIgnores(t *testing.T) {
	f := NewFleet()

	tests := []string{
		"garbage",
		"0x123456789AB 3.85",
		"",
	}
	for _, line := range tests {
		_, ok := f.Observe(telemetry.Classify(line), start)
		assert.False(t, ok, line)
	}
	assert.Empty(t, f.Robots())
}

func TestFleetKeepsLastTenEvents(t *testing.T) {
	f := NewFleet()

	for i := 0; i < 12; i++ {
		event := "PLAY"
		if i%2 == 1 {
			event = "TEST"
		}
		f.Observe(telemetry.Classify("0x1 "+event+" forward"), start.Add(time.Duration(i)*time.Second))
	}

	r, ok := f.Robot("0x1")
	require.True(t, ok)
	require.Len(t, r.Events, 10)
	assert.Equal(t, start.Add(2*time.Second), r.Events[0].Time)
	assert.Equal(t, "TEST", r.Events[9].Event)
}

func TestFleetRobotsSorted(t *testing.T) {
	f := NewFleet()
	f.Observe(telemetry.Classify("0xB 3.70"), start)
	f.Observe(telemetry.Classify("0xA 3.70"), start)

	robots := f.Robots()
	require.Len(t, robots, 2)
	assert.Equal(t, "0xA", robots[0].DeviceID)
	assert.Equal(t, "0xB", robots[1].DeviceID)

	// snapshots don't alias the fleet
	robots[0].Events = append(robots[0].Events, ButtonEvent{})
	r, _ := f.Robot("0xA")
	assert.Empty(t, r.Events)
}
