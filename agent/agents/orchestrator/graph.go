package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/chative-shopping-assistant/agent/nodes"
)

func (o *Orchestrator) compileHandleTurnGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode(nodex.NodeValidateRequest,
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeValidateRequest, err)
	}

	steps := []struct {
		name string
		fn   func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error)
	}{
		{nodex.NodeLoadOrCreateSession, func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadOrCreateSession(ctx, in, o.store)
		}},
		{nodex.NodeRecordUserTurn, func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RecordUserTurn(in)
		}},
		{nodex.NodeInterpretIntent, func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.InterpretIntent(ctx, in, o.interpreter)
		}},
		{nodex.NodeGateTransition, func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.GateTransition(ctx, in, o.deps)
		}},
		{nodex.NodeDispatchIntent, func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DispatchIntent(ctx, in, o.deps)
		}},
		{nodex.NodeSaveSession, func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveSession(ctx, in, o.store)
		}},
	}
	for _, step := range steps {
		if err := graph.AddLambdaNode(step.name, compose.InvokableLambda(step.fn)); err != nil {
			return nil, fmt.Errorf("add node %s: %w", step.name, err)
		}
	}

	if err := graph.AddLambdaNode(nodex.NodeFinalizeReply,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeFinalizeReply, err)
	}

	afterInterpret := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.RouteAfterInterpret(in)
		},
		map[string]bool{
			nodex.NodeGateTransition: true,
			nodex.NodeDispatchIntent: true,
		},
	)
	if err := graph.AddBranch(nodex.NodeInterpretIntent, afterInterpret); err != nil {
		return nil, fmt.Errorf("add branch after %s: %w", nodex.NodeInterpretIntent, err)
	}

	afterGate := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.RouteAfterGate(in)
		},
		map[string]bool{
			nodex.NodeDispatchIntent: true,
			nodex.NodeSaveSession:    true,
		},
	)
	if err := graph.AddBranch(nodex.NodeGateTransition, afterGate); err != nil {
		return nil, fmt.Errorf("add branch after %s: %w", nodex.NodeGateTransition, err)
	}

	edges := [][2]string{
		{compose.START, nodex.NodeValidateRequest},
		{nodex.NodeValidateRequest, nodex.NodeLoadOrCreateSession},
		{nodex.NodeLoadOrCreateSession, nodex.NodeRecordUserTurn},
		{nodex.NodeRecordUserTurn, nodex.NodeInterpretIntent},
		{nodex.NodeDispatchIntent, nodex.NodeSaveSession},
		{nodex.NodeSaveSession, nodex.NodeFinalizeReply},
		{nodex.NodeFinalizeReply, compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
