// score loads melodies from yaml files
//
//	name: birthday
//	bpm: 120
//	notes:
//	  - "C4:quaver. C4:semiquaver"
//	  - D4:crotchet
//	  - R:crotchet
package score

import (
	"errors"
	"fmt"
	"io/fs"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"code.sztanpet.net/zvpsz/piezo/internal/tone"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("score not found")

var extensions = []string{".yaml", ".yml"}

type Score struct {
	Name   string
	BPM    uint32
	Melody tone.Melody
}

type file struct {
	Name  string   `yaml:"name"`
	BPM   uint32   `yaml:"bpm"`
	Notes []string `yaml:"notes"`
}

// Parse decodes and validates a score, fallbackName is used when the file has no name
func Parse(data []byte, fallbackName string) (*Score, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if f.BPM == 0 {
		return nil, errors.New("bpm must be above 0")
	}
	if len(f.Notes) == 0 {
		return nil, errors.New("no notes")
	}

	s := &Score{
		Name:   f.Name,
		BPM:    f.BPM,
		Melody: make(tone.Melody, 0, len(f.Notes)),
	}
	if s.Name == "" {
		s.Name = fallbackName
	}

	for i, n := range f.Notes {
		// a single entry may hold several notes
		m, err := tone.ParseMelody(n)
		if err != nil {
			return nil, fmt.Errorf("notes[%d]: %w", i, err)
		}
		s.Melody = append(s.Melody, m...)
	}

	return s, nil
}

func Load(path string) (*Score, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := Parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("score %v: %w", path, err)
	}

	return s, nil
}

// Find loads the score called name from dir
func Find(dir, name string) (*Score, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid score name %q", name)
	}

	for _, ext := range extensions {
		path := filepath.Join(dir, name+ext)
		s, err := Load(path)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%q in %v: %w", name, dir, ErrNotFound)
}

// List returns the sorted names of the scores in dir
func List(dir string) ([]string, error) {
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := filepath.Ext(f.Name())
		for _, e := range extensions {
			if ext == e {
				names = append(names, strings.TrimSuffix(f.Name(), ext))
			}
		}
	}
	sort.Strings(names)

	return names, nil
}
