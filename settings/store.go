package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/calvinmclean/codebot"
)

// RecordName is the file FileStore keeps the settings in
const RecordName = "settings.json"

var (
	// ErrCorrupt is returned when a stored record can't be decoded
	ErrCorrupt = errors.New("settings record is corrupt")
)

// Store persists Settings. Load never returns invalid values: when nothing was stored yet it
// returns Defaults
type Store interface {
	Load() (Settings, error)
	Save(Settings) error
}

// Encode serializes the record shared by every Store
func Encode(s Settings) ([]byte, error) {
	return json.Marshal(s)
}

// Decode is the inverse of Encode. The result is normalized
func Decode(data []byte) (Settings, error) {
	s := Defaults()
	err := json.Unmarshal(data, &s)
	if err != nil {
		return Defaults(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return s.Normalize(), nil
}

// FileStore keeps the settings as one JSON record in a directory. Saves write a temporary
// file and rename it over the record so a crash never leaves a half-written record behind
type FileStore struct {
	Dir string
}

var _ Store = FileStore{}

func NewFileStore(dir string) FileStore {
	return FileStore{Dir: dir}
}

// Load reads the record. Without one it migrates the legacy one-value-per-file layout
func (f FileStore) Load() (Settings, error) {
	data, err := os.ReadFile(filepath.Join(f.Dir, RecordName))
	if errors.Is(err, fs.ErrNotExist) {
		return f.loadLegacy()
	}
	if err != nil {
		return Defaults(), fmt.Errorf("error reading settings: %w", err)
	}
	return Decode(data)
}

// Save replaces the record
func (f FileStore) Save(s Settings) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("error encoding settings: %w", err)
	}

	err = os.MkdirAll(f.Dir, 0o755)
	if err != nil {
		return fmt.Errorf("error creating settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.Dir, RecordName+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("error writing settings: %w", err)
	}

	err = os.Rename(tmp.Name(), filepath.Join(f.Dir, RecordName))
	if err != nil {
		return fmt.Errorf("error replacing settings: %w", err)
	}
	return nil
}

// Legacy file names, one decimal value each
const (
	legacyLeftCompensation  = "comp1"
	legacyRightCompensation = "comp2"
	legacyDriveTime         = "driveTime"
	legacyTurnTime          = "turnTime"
	legacyLanguage          = "lang"
	legacyVolume            = "sound"
)

// loadLegacy reads whichever legacy files exist. Missing or unreadable values keep their default
func (f FileStore) loadLegacy() (Settings, error) {
	s := Defaults()

	if v, ok := f.readLegacyFloat(legacyLeftCompensation); ok {
		s.LeftCompensation = v
	}
	if v, ok := f.readLegacyFloat(legacyRightCompensation); ok {
		s.RightCompensation = v
	}
	if v, ok := f.readLegacyInt(legacyDriveTime); ok {
		s.DriveTime = int32(v)
	}
	if v, ok := f.readLegacyInt(legacyTurnTime); ok {
		s.TurnTime = int32(v)
	}
	if v, ok := f.readLegacyInt(legacyLanguage); ok {
		s.Language = codebot.Language(v)
	}
	if v, ok := f.readLegacyInt(legacyVolume); ok && v >= 0 && v <= int(MaxVolume) {
		s.Volume = uint8(v)
	}

	return s.Normalize(), nil
}

func (f FileStore) readLegacy(name string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(f.Dir, name))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

func (f FileStore) readLegacyFloat(name string) (float32, bool) {
	raw, ok := f.readLegacy(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

func (f FileStore) readLegacyInt(name string) (int, bool) {
	raw, ok := f.readLegacy(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
