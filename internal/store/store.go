// Package store persists comparison runs as a per-run directory holding
// metadata plus one CSV per trajectory.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shadyrajab/chaos/internal/analysis"
	"github.com/shadyrajab/chaos/internal/dynamo"
	"github.com/shadyrajab/chaos/internal/pendulum"
)

const (
	BaselineFile  = "baseline.csv"
	PerturbedFile = "perturbed.csv"
)

var stateHeader = []string{"time", "theta1", "omega1", "theta2", "omega2"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Params     pendulum.Params    `json:"params"`
	InitState  []float64          `json:"init_state"`
	Epsilon    float64            `json:"epsilon"`
	Integrator string             `json:"integrator"`
	Samples    int                `json:"samples"`
	Start      float64            `json:"start"`
	End        float64            `json:"end"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

func (s *Store) Save(meta RunMetadata, cmp *analysis.Comparison) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	// Millisecond stamp plus a counter suffix, so back-to-back saves
	// never land in the same directory.
	stamp := time.Now().UnixMilli()
	runID := fmt.Sprintf("chaos_%d", stamp)
	runDir := filepath.Join(s.baseDir, runID)
	for n := 1; ; n++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("chaos_%d_%d", stamp, n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Samples = cmp.Baseline.Len()
	if n := cmp.Baseline.Len(); n > 0 {
		meta.Start = cmp.Baseline.Times[0]
		meta.End = cmp.Baseline.Times[n-1]
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeTrajectory(filepath.Join(runDir, BaselineFile), cmp.Baseline); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, PerturbedFile), cmp.Perturbed); err != nil {
		return "", err
	}

	return runID, nil
}

func writeTrajectory(path string, traj *dynamo.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(stateHeader); err != nil {
		return err
	}

	row := make([]string, len(stateHeader))
	for i := range traj.States {
		row[0] = strconv.FormatFloat(traj.Times[i], 'g', 17, 64)
		for j, val := range traj.States[i] {
			row[j+1] = strconv.FormatFloat(val, 'g', 17, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads one of the two stored trajectories; file is
// BaselineFile or PerturbedFile.
func (s *Store) LoadTrajectory(runID, file string) (*dynamo.Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, file))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("store: %s/%s is empty", runID, file)
	}

	traj := &dynamo.Trajectory{
		States: make([]dynamo.State, 0, len(records)-1),
		Times:  make([]float64, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		if len(record) != len(stateHeader) {
			return nil, fmt.Errorf("store: malformed row in %s/%s", runID, file)
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, err
		}
		state := make(dynamo.State, len(record)-1)
		for j, field := range record[1:] {
			state[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, err
			}
		}
		traj.Times = append(traj.Times, t)
		traj.States = append(traj.States, state)
	}

	return traj, nil
}

// LoadComparison reads both stored trajectories of a run.
func (s *Store) LoadComparison(runID string) (*analysis.Comparison, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	base, err := s.LoadTrajectory(runID, BaselineFile)
	if err != nil {
		return nil, nil, err
	}
	pert, err := s.LoadTrajectory(runID, PerturbedFile)
	if err != nil {
		return nil, nil, err
	}
	return &analysis.Comparison{
		Baseline:     base,
		Perturbed:    pert,
		PerturbIndex: pendulum.Theta2,
		Epsilon:      meta.Epsilon,
	}, meta, nil
}
