package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	cli "github.com/urfave/cli/v3"
	"github.com/gosimple/slug"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"s2orc/config"
	"s2orc/s2orc"
	"s2orc/state"
	"s2orc/textutil"
)

// runBuild reads one raw record per line from INPUT, calls s2orc.BuildPaper
// on each concurrently (bounded by the configured worker count — "external
// collaborators may process papers in parallel"), and writes one
// reconstructed paper per line to OUTPUT. Each line is independent: a
// CorruptRecord error for one paper is logged and skipped, it never aborts
// the run.
func runBuild(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	in := os.Stdin
	if name := cmd.Args().Get(0); len(name) > 0 && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("unable to open input '%s': %w", name, err)
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	if name := cmd.Args().Get(1); len(name) > 0 && name != "-" {
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("unable to create output '%s': %w", name, err)
		}
		defer f.Close()
		out = f
	}

	workers := 1
	if env.Cfg != nil && env.Cfg.Workers > 0 {
		workers = env.Cfg.Workers
	}

	pipelineCfg := s2orc.Config{}
	if env.Cfg != nil {
		pipelineCfg.DummySectionTitle = env.Cfg.Pipeline.DummySectionTitle
		pipelineCfg.MiscSectionTitle = env.Cfg.Pipeline.MiscSectionTitle
		for _, kind := range env.Cfg.Pipeline.ReferenceMarkerKinds {
			pipelineCfg.ReferenceMarkerKinds = append(pipelineCfg.ReferenceMarkerKinds, s2orc.ReferenceMarkerType(kind))
		}
	}

	normalizeTitles := cmd.Bool("normalize-titles")

	var writeMu sync.Mutex
	writeOne := func(line int, raw []byte, buildErr error) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		if buildErr != nil {
			env.Log.Warn("Dropping corrupt record", zap.Int("line", line), zap.Error(buildErr))
			return nil
		}
		if _, err := out.Write(raw); err != nil {
			return err
		}
		_, err := out.Write([]byte("\n"))
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var aggregate error
	line := 0
	for scanner.Scan() {
		line++
		n := line
		text := append([]byte(nil), scanner.Bytes()...)

		select {
		case <-gctx.Done():
		default:
		}

		g.Go(func() error {
			var raw s2orc.RawRecord
			if err := json.Unmarshal(text, &raw); err != nil {
				return writeOne(n, nil, fmt.Errorf("line %d: %w", n, err))
			}

			paper, err := s2orc.BuildPaper(&raw, pipelineCfg, env.Log)
			if err != nil {
				return writeOne(n, nil, err)
			}

			if normalizeTitles {
				summarizeTitle(paper)
			}
			if env.Rpt != nil {
				// Report is not safe for concurrent use; share the write lock.
				writeMu.Lock()
				storeDebugBundle(env, n, paper)
				writeMu.Unlock()
			}

			data, err := json.Marshal(paper)
			if err != nil {
				return writeOne(n, nil, fmt.Errorf("corpusid %d: %w", paper.CorpusID, err))
			}
			return writeOne(n, data, nil)
		})
	}
	if err := scanner.Err(); err != nil {
		aggregate = multierr.Append(aggregate, fmt.Errorf("reading input: %w", err))
	}

	if err := g.Wait(); err != nil {
		aggregate = multierr.Append(aggregate, err)
	}
	return aggregate
}

// summarizeTitle prints the whitespace-normalized header of the paper's
// first section to stderr, demonstrating textutil.NormalizeWhitespace for
// collaborators who want a readable summary line rather than raw spans.
func summarizeTitle(paper *s2orc.Paper) {
	for _, c := range paper.Contents {
		sec, ok := c.(*s2orc.Section)
		if !ok {
			continue
		}
		fmt.Fprintf(os.Stderr, "%d: %s\n", paper.CorpusID, textutil.NormalizeWhitespace(sec.Header.Text))
		return
	}
}

// storeDebugBundle stashes the final paper dump for manual inspection when
// --debug is requested, one entry per paper keyed by corpusid and a slug of
// its first section header so operators can spot a bad reconstruction by
// name rather than by line number alone.
func storeDebugBundle(env *state.LocalEnv, line int, paper *s2orc.Paper) {
	key := strconv.Itoa(paper.CorpusID)
	for _, c := range paper.Contents {
		if sec, ok := c.(*s2orc.Section); ok && sec.Header.Text != "" {
			key = key + "-" + slug.Make(sec.Header.Text)
			break
		}
	}
	env.Rpt.StoreData(fmt.Sprintf("papers/%s.txt", config.CleanFileName(key)), []byte(paper.String()))
}
