package export

import (
	"encoding/xml"
	"fmt"
	"path/filepath"

	"stratum/internal/store"
)

type xmlPVDFile struct {
	XMLName   xml.Name      `xml:"VTKFile"`
	Type      string        `xml:"type,attr"`
	Version   string        `xml:"version,attr"`
	ByteOrder string        `xml:"byte_order,attr"`
	Sets      xmlCollection `xml:"Collection"`
}

type xmlCollection struct {
	DataSets []xmlDataSet `xml:"DataSet"`
}

type xmlDataSet struct {
	Timestep float64 `xml:"timestep,attr"`
	Part     int     `xml:"part,attr"`
	File     string  `xml:"file,attr"`
}

// WritePVDFromRegistry writes the collection manifest for a recorded run.
// steps selects a subset (nil means every recorded step); times overrides the
// timestep annotation per step, falling back to the recorded time. Constant
// files are listed for each step under the step's timestep, with part
// indices continuing after the step files.
func WritePVDFromRegistry(reg *store.Registry, dir string, steps []int, times map[int]float64) error {
	if len(reg.Steps) == 0 {
		return fmt.Errorf("export: run %q has no recorded steps", reg.Name)
	}
	byStep := make(map[int]store.RegistryStep, len(reg.Steps))
	for _, s := range reg.Steps {
		byStep[s.Step] = s
	}
	if steps == nil {
		steps = reg.StepNumbers()
	}

	doc := xmlPVDFile{Type: "Collection", Version: "0.1", ByteOrder: "LittleEndian"}
	for _, n := range steps {
		s, ok := byStep[n]
		if !ok {
			return fmt.Errorf("export: step %d was never written for run %q", n, reg.Name)
		}
		t := s.Time
		if tt, ok := times[n]; ok {
			t = tt
		}
		part := 0
		for _, f := range s.Files {
			doc.Sets.DataSets = append(doc.Sets.DataSets, xmlDataSet{Timestep: t, Part: part, File: f.Path})
			part++
		}
		if s.ConstGroup > 0 {
			for _, f := range reg.ConstantFiles(s.ConstGroup) {
				doc.Sets.DataSets = append(doc.Sets.DataSets, xmlDataSet{Timestep: t, Part: part, File: f.Path})
				part++
			}
		}
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	out := append([]byte(xml.Header), append(body, '\n')...)
	return store.WriteFileAtomic(filepath.Join(dir, reg.Name+".pvd"), out, 0o644)
}
