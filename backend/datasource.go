package backend

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/fsnotify/fsnotify"
)

// Session is the evolving state of one loaded trace. Each emission carries
// the same Dataset with more samples inserted.
type Session struct {
	ID   string
	Data Dataset
	Mode Mode
	Err  error
}

// Status summarizes the current session for display chrome that doesn't
// need the data itself.
type Status struct {
	SessionID string
	Mode      Mode
	Err       error
}

type InputKind uint8

const (
	KindSample InputKind = iota
	KindHeadings
)

type InputData struct {
	Kind InputKind
	Sample
	Headings      []string
	HeadingSeries []int
}

type Mode uint8

const (
	ModeNone Mode = iota
	// ModeReplaying reads a complete trace file once.
	ModeReplaying
	// ModeFollowing keeps reading a trace file as it grows.
	ModeFollowing
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeReplaying:
		return "replaying"
	case ModeFollowing:
		return "following"
	default:
		return "unknown"
	}
}

type Datasource struct {
	pool          *stream.MutationPool[string, Session]
	watcher       *fsnotify.Watcher
	appCtx        context.Context
	seriesCounter atomic.Int32
}

func NewDatasource(appCtx context.Context, mutator *stream.Mutator) (*Datasource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	ds := &Datasource{
		pool:    stream.NewMutationPool[string, Session](mutator),
		watcher: watcher,
		appCtx:  appCtx,
	}
	return ds, nil
}

func (d *Datasource) SessionStream(ctx context.Context) <-chan map[string]*stream.Mutation[Session] {
	return d.pool.Stream(ctx)
}

func (d *Datasource) getMutation(ctx context.Context, sessionID string) *stream.Mutation[Session] {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return (<-d.SessionStream(ctx))[sessionID]
}

func (d *Datasource) StreamSession(ctx context.Context, sessionID string) <-chan Session {
	return d.getMutation(ctx, sessionID).Stream(ctx)
}

// CurrentSessionStream emits the states of the most recently started
// session, switching over automatically whenever a newer session begins.
func (d *Datasource) CurrentSessionStream(ctx context.Context) <-chan Session {
	return stream.Multiplex(d.pool.Stream(ctx), func(ctx context.Context, state string, mutations map[string]*stream.Mutation[Session]) (<-chan Session, string) {
		newest := ""
		for id := range mutations {
			if id > newest {
				newest = id
			}
		}
		if newest == "" || newest == state {
			return nil, state
		}
		state = newest
		return mutations[newest].Stream(ctx), state
	})
}

// StatusStream narrows CurrentSessionStream to its display summary.
func (d *Datasource) StatusStream(ctx context.Context) <-chan Status {
	return stream.Filter(d.CurrentSessionStream(ctx), func(session Session) (Status, bool) {
		return Status{
			SessionID: session.ID,
			Mode:      session.Mode,
			Err:       session.Err,
		}, true
	})
}

// Session IDs are generated from the wall clock so that the newest session
// always compares greater than its predecessors.
func generateSessionID() string {
	return strings.Replace(time.Now().UTC().Format("20060102150405.000000000"), ".", "", 1)
}

func (d *Datasource) recordSession(sessionID string, mode Mode, files ...io.ReadCloser) *stream.Mutation[Session] {
	box, _ := stream.Mutate(d.pool, sessionID, func(ctx context.Context) (values <-chan Session) {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			session := Session{
				ID:   sessionID,
				Data: Dataset{},
				Mode: mode,
				Err:  nil,
			}
			// Emit our boxed dataset immediately.
			out <- session

			follow := mode == ModeFollowing
			rawSamples := make(chan InputData, 1024)
			for _, file := range files {
				if follow {
					if f, ok := file.(interface{ Name() string }); ok {
						if err := d.watcher.Add(f.Name()); err != nil {
							log.Printf("failed watching %q: %v", f.Name(), err)
						}
					}
				}
				go d.readTrace(file, rawSamples, follow)
			}
			closeAll := func() {
				var err error
				for _, file := range files {
					err = errors.Join(err, file.Close())
				}
				if err != nil {
					session.Err = err
					out <- session
				}
			}
			for {
				select {
				case <-ctx.Done():
					closeAll()
					return
				case input := <-rawSamples:
					if input.Kind == KindHeadings {
						session.Data.SetHeadings(input.Headings, input.HeadingSeries)
					} else {
						session.Data.Insert(input.Sample)
					}
					out <- session
				}
			}
		}()
		return out
	})
	return box
}

// LoadFromFile prompts the user for a trace file and replays it.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) (string, error) {
	file, err := expl.ChooseFile()
	if err != nil {
		return "", err
	}
	return d.LoadFromStream(ModeReplaying, file), nil
}

// FollowFile opens the trace file at path and keeps loading samples from it
// as other processes append to it.
func (d *Datasource) FollowFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed opening trace: %w", err)
	}
	return d.LoadFromStream(ModeFollowing, file), nil
}

func (d *Datasource) LoadFromStream(mode Mode, files ...io.ReadCloser) string {
	id := generateSessionID()
	return d.LoadFromStreamWithID(id, mode, files...)
}

func (d *Datasource) LoadFromStreamWithID(sessionID string, mode Mode, files ...io.ReadCloser) string {
	d.recordSession(sessionID, mode, files...)
	return sessionID
}

// parseTraceRow extracts one sample per populated data column of a CSV
// record. dataCols holds the column index of each series and headingSeries
// its backend identifier. Unparseable cells are skipped with a log line
// rather than aborting the row.
func parseTraceRow(rec []string, dataCols, headingSeries []int) ([]Sample, error) {
	tsNS, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed parsing timestamp: %w", err)
	}
	var samples []Sample
	for j, col := range dataCols {
		if col >= len(rec) {
			continue
		}
		cell := strings.TrimSpace(rec[col])
		if len(cell) < 1 {
			// Skip null cells.
			continue
		}
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			log.Printf("failed parsing data[%d]=%q: %v", col, rec[col], err)
			continue
		}
		samples = append(samples, Sample{
			TimestampNS: tsNS,
			Series:      headingSeries[j],
			Value:       value,
		})
	}
	return samples, nil
}

func (d *Datasource) readTrace(source io.Reader, samplesChan chan InputData, follow bool) {
	csvReader := csv.NewReader(NewLineReader(source))
	csvReader.TrimLeadingSpace = true
	headings, err := csvReader.Read()
	if err != nil {
		log.Printf("failed reading CSV headings: %v", err)
		return
	}
	dataCols := make([]int, 0, len(headings))
	relevantHeadings := make([]string, 0, len(headings))
	headingSeries := make([]int, 0, len(headings))
	for i, heading := range headings {
		// Column zero holds the timestamp.
		if i == 0 {
			continue
		}
		heading = strings.TrimSpace(heading)
		if heading == "" {
			continue
		}
		dataCols = append(dataCols, i)
		relevantHeadings = append(relevantHeadings, heading)
		headingSeries = append(headingSeries, int(d.seriesCounter.Add(1)))
	}
	samplesChan <- InputData{
		Kind:          KindHeadings,
		Headings:      relevantHeadings,
		HeadingSeries: headingSeries,
	}
	// Continuously parse the CSV data and send it on the channel.
readLoop:
	for {
		rec, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if !follow {
					return
				}
				for ev := range d.watcher.Events {
					if ev.Op == fsnotify.Write {
						continue readLoop
					}
				}
			}
			log.Printf("could not read trace data: %v", err)
			return
		}
		samples, err := parseTraceRow(rec, dataCols, headingSeries)
		if err != nil {
			log.Printf("skipping row: %v", err)
			continue
		}
		for _, sample := range samples {
			samplesChan <- InputData{
				Kind:   KindSample,
				Sample: sample,
			}
		}
	}
}
