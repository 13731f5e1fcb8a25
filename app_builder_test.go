package particlefield

import (
	"bytes"
	"strings"
	"testing"
)

type MockModule struct {
	installed bool
}

func (m *MockModule) Install(app *App, commands *Commands) error {
	m.installed = true
	return nil
}

type MockModule2 struct {
	installed bool
}

func (m *MockModule2) Install(app *App, commands *Commands) error {
	m.installed = true
	return nil
}

func TestAppBuilder_Defaults(t *testing.T) {
	app := NewAppBuilder().Build()

	if _, ok := app.scheduler.(*StepScheduler); !ok {
		t.Errorf("Expected a StepScheduler by default, got %T", app.scheduler)
	}
	if len(app.stages) != 7 {
		t.Errorf("Expected 7 stages, got %d", len(app.stages))
	}
	if app.Logger() == nil {
		t.Errorf("Logger should never be nil")
	}
	if app.Mounted() {
		t.Errorf("A built app should not be mounted")
	}
}

func TestAppBuilder_UseModule(t *testing.T) {
	module1 := &MockModule{}
	module2 := &MockModule2{}

	app := NewAppBuilder().
		UseModule(module1, module2).
		Build()

	if module1.installed || module2.installed {
		t.Errorf("Modules should not be installed before Mount")
	}
	if err := app.Mount(&fakeContainer{w: 4, h: 4}); err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer app.Unmount()

	if !module1.installed {
		t.Errorf("Expected module1 to be installed")
	}
	if !module2.installed {
		t.Errorf("Expected module2 to be installed")
	}
}

func TestAppBuilder_UseScheduler(t *testing.T) {
	scheduler := NewStepScheduler(0.25)
	app := NewAppBuilder().UseScheduler(scheduler).Build()

	if app.scheduler != scheduler {
		t.Errorf("Expected the given scheduler to be used")
	}
}

func TestNewParticleField_InstallsLogger(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewStreamLogger("test", LevelDebug, &out, &errOut)

	app := NewParticleField(smallConfig(), newFakePlatform(), NewStepScheduler(DefaultFrameStep), logger)
	if err := app.Mount(&fakeContainer{w: 4, h: 4}); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if app.Logger() != Logger(logger) {
		t.Errorf("Expected the given logger to be installed")
	}
	app.Unmount()

	if !strings.Contains(out.String(), "[test] INFO: mounted 4x4") {
		t.Errorf("Expected mount to be logged, got %q", out.String())
	}
	if !strings.Contains(out.String(), "DEBUG: releasing frame scheduling") {
		t.Errorf("Expected releases to be logged at debug level, got %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("Expected no warnings, got %q", errOut.String())
	}
}

func TestNewParticleField_NilLoggerIsSilent(t *testing.T) {
	app := NewParticleField(smallConfig(), newFakePlatform(), nil, nil)
	for _, m := range app.modules {
		if _, ok := m.(LoggingModule); ok {
			t.Errorf("No LoggingModule expected without a logger")
		}
	}
	if _, ok := app.Logger().(nopLogger); !ok {
		t.Errorf("Expected the nop logger, got %T", app.Logger())
	}
}

func TestLoggingModule_BuildsStreamLogger(t *testing.T) {
	var out, errOut bytes.Buffer

	app := NewAppBuilder().UseModule(LoggingModule{Level: LevelInfo, Out: &out, ErrOut: &errOut}).Build()
	if err := app.Mount(&fakeContainer{w: 1, h: 1}); err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer app.Unmount()

	stream, ok := app.Logger().(*StreamLogger)
	if !ok {
		t.Fatalf("Expected a StreamLogger, got %T", app.Logger())
	}
	app.Logger().Debugf("hidden")
	app.Logger().Warnf("shown %d", 1)
	if out.Len() == 0 || strings.Contains(out.String(), "hidden") {
		t.Errorf("Debug output should be suppressed, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "WARN: shown 1") {
		t.Errorf("Expected warning on the error stream, got %q", errOut.String())
	}

	stream.SetLevel(LevelError)
	app.Logger().Warnf("dropped")
	app.Logger().Errorf("kept")
	if strings.Contains(errOut.String(), "dropped") || !strings.Contains(errOut.String(), "ERROR: kept") {
		t.Errorf("Expected only errors after raising the level, got %q", errOut.String())
	}
}

func TestLevel_String(t *testing.T) {
	for level, want := range map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(9):   "LEVEL(9)",
	} {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", int32(level), got, want)
		}
	}
}
