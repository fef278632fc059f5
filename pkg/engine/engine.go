package engine

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	bterrors "github.com/matzehuels/branchtime/pkg/errors"
	"github.com/matzehuels/branchtime/pkg/model"
	"github.com/matzehuels/branchtime/pkg/observability"
	"github.com/matzehuels/branchtime/pkg/tree"
)

// Engine runs the dynamic program with a fixed configuration.
//
// The Engine is stateless apart from its options. Multiple goroutines can
// safely call Compute on the same Engine.
type Engine struct {
	opts Options
}

// New returns an Engine with the given options. Invalid options are
// reported by Compute.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Compute runs the engine with default options.
func Compute(ctx context.Context, topo *tree.Topology, params model.Parameters) (*Result, error) {
	return New(Options{}).Compute(ctx, topo, params)
}

// Compute validates its inputs, runs both passes and returns the result.
// No partial result is returned on error.
func (e *Engine) Compute(ctx context.Context, topo *tree.Topology, params model.Parameters) (*Result, error) {
	opts := e.opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	m, err := prepare(topo, params)
	if err != nil {
		return nil, err
	}

	workers := min(opts.Workers, topo.N())
	info := observability.RunInfo{
		RunID:    uuid.NewString(),
		Nodes:    topo.N(),
		GridSize: params.GridSize,
		Workers:  workers,
	}
	logger := opts.Logger.With("run_id", info.RunID)
	hooks := opts.hooks()

	start := time.Now()
	hooks.OnRunStart(ctx, info)
	res, err := run(ctx, topo, m, info, hooks, opts)
	if err != nil {
		logger.Error("run failed", "code", bterrors.GetCode(err), "err", err)
		hooks.OnRunComplete(ctx, info, math.NaN(), time.Since(start), err)
		return nil, err
	}
	hooks.OnRunComplete(ctx, info, res.logL, time.Since(start), nil)

	logger.Info("computed posteriors",
		"nodes", info.Nodes,
		"grid", info.GridSize,
		"log_likelihood", res.logL,
		"duration", time.Since(start))
	return res, nil
}

// prepare checks everything that can be checked before the passes run.
func prepare(topo *tree.Topology, params model.Parameters) (*model.Model, error) {
	if topo == nil {
		return nil, bterrors.New(bterrors.ErrCodeInvalidTopology, "topology is nil")
	}
	m, err := model.New(params)
	if err != nil {
		return nil, err
	}

	k := params.Characters
	for v := range topo.N() {
		c := topo.Cap(v, k)
		if err := bterrors.ValidateCount("character cap", v, c, k); err != nil {
			return nil, err
		}
		if err := bterrors.ValidateCount("mutation count", v, topo.Mutations(v), c); err != nil {
			return nil, err
		}
	}

	if need := topo.Height() + 1; params.GridSize < need {
		return nil, bterrors.New(bterrors.ErrCodeInvalidParameter,
			"grid size %d too small for tree height %d, need at least %d", params.GridSize, topo.Height(), need)
	}
	return m, nil
}

func run(ctx context.Context, topo *tree.Topology, m *model.Model, info observability.RunInfo,
	hooks observability.EngineHooks, opts Options,
) (*Result, error) {
	logger := opts.Logger.With("run_id", info.RunID)
	ws := newWorkspace(topo, m, info.Workers)

	res := &Result{
		RunID: info.RunID,
		Grid:  m.Grid(),
		Stats: Stats{Nodes: info.Nodes, GridSize: info.GridSize, Workers: info.Workers},
		n:     topo.N(),
	}

	passStart := time.Now()
	err := ws.upward(ctx, info.Workers)
	res.Stats.UpwardTime = time.Since(passStart)
	hooks.OnPassComplete(ctx, info, observability.PassUpward, res.Stats.UpwardTime, err)
	if err != nil {
		return nil, err
	}
	logger.Debug("upward pass complete", "duration", res.Stats.UpwardTime)

	passStart = time.Now()
	err = ws.downward(ctx, info.Workers)
	res.Stats.DownwardTime = time.Since(passStart)
	hooks.OnPassComplete(ctx, info, observability.PassDownward, res.Stats.DownwardTime, err)
	if err != nil {
		return nil, err
	}
	logger.Debug("downward pass complete", "duration", res.Stats.DownwardTime)

	passStart = time.Now()
	logL, err := ws.aggregate(ctx, info.Workers)
	res.Stats.AggregateTime = time.Since(passStart)
	hooks.OnPassComplete(ctx, info, observability.PassPosterior, res.Stats.AggregateTime, err)
	if err != nil {
		return nil, err
	}
	logger.Debug("posterior pass complete", "duration", res.Stats.AggregateTime)

	res.parent = make([]int, topo.N())
	for v := range res.parent {
		res.parent[v] = topo.Parent(v)
	}
	res.up, res.outside, res.down, res.post, res.means = ws.up, ws.outside, ws.down, ws.post, ws.means
	res.logL = logL
	return res, nil
}
