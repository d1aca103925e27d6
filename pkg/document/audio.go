package document

import "slices"

// AudioSetup describes the audio sources a graph reacts to. The core only
// stores it; analysis happens in the host.
type AudioSetup struct {
	Files     []AudioFile `json:"files"`
	Bands     []AudioBand `json:"bands"`
	Remappers []Remapper  `json:"remappers"`
}

// AudioFile is a loaded audio source.
type AudioFile struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	FilePath        string   `json:"filePath,omitempty"`
	DurationSeconds *float64 `json:"durationSeconds,omitempty"`
}

// AudioBand is a frequency analysis band over one file.
// FrequencyBands holds [lowHz, highHz] pairs.
type AudioBand struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	SourceFileID   string       `json:"sourceFileId"`
	FrequencyBands [][2]float64 `json:"frequencyBands"`
	Smoothing      float64      `json:"smoothing"`
	FFTSize        int          `json:"fftSize"`
	RemapInMin     float64      `json:"remapInMin"`
	RemapInMax     float64      `json:"remapInMax"`
	RemapOutMin    float64      `json:"remapOutMin"`
	RemapOutMax    float64      `json:"remapOutMax"`
}

// Remapper exposes a band's remapped signal as a connectable source.
type Remapper struct {
	ID     string `json:"id"`
	BandID string `json:"bandId"`
}

// FindBand returns the band with the given id.
func (a *AudioSetup) FindBand(id string) (*AudioBand, bool) {
	if a == nil {
		return nil, false
	}
	for i := range a.Bands {
		if a.Bands[i].ID == id {
			return &a.Bands[i], true
		}
	}
	return nil, false
}

// HasRemapperFor reports whether a remapper already exists for bandID.
func (a *AudioSetup) HasRemapperFor(bandID string) bool {
	if a == nil {
		return false
	}
	return slices.ContainsFunc(a.Remappers, func(r Remapper) bool { return r.BandID == bandID })
}

// Clone returns a deep copy of a.
func (a *AudioSetup) Clone() *AudioSetup {
	if a == nil {
		return nil
	}
	out := &AudioSetup{
		Files:     slices.Clone(a.Files),
		Remappers: slices.Clone(a.Remappers),
	}
	for i := range out.Files {
		if d := out.Files[i].DurationSeconds; d != nil {
			v := *d
			out.Files[i].DurationSeconds = &v
		}
	}
	if a.Bands != nil {
		out.Bands = make([]AudioBand, len(a.Bands))
		for i, b := range a.Bands {
			b.FrequencyBands = slices.Clone(b.FrequencyBands)
			out.Bands[i] = b
		}
	}
	return out
}
