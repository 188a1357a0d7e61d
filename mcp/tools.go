package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nathoo/questcheck/engine"
	"github.com/nathoo/questcheck/engine/sanity"
)

// CheckAllInput narrows check_all to one result kind or resource.
type CheckAllInput struct {
	Kind     string `json:"kind,omitempty" jsonschema:"restrict to template, object, factory or quest results"`
	Resource string `json:"resource,omitempty" jsonschema:"restrict to results about this resource name"`
}

// NameInput names the template, quest or object to describe.
type NameInput struct {
	Name string `json:"name" jsonschema:"resource name"`
}

// ListKindsInput optionally restricts list_kinds to one family.
type ListKindsInput struct {
	Family string `json:"family,omitempty" jsonschema:"trigger, reward or seqop"`
}

// ResultOutput is one diagnostic.
type ResultOutput struct {
	Kind     string `json:"kind"`
	Resource string `json:"resource"`
	Location string `json:"location"`
	Message  string `json:"message"`
	Hint     string `json:"hint,omitempty"`
}

// CheckAllOutput is the filtered result list with its summary line.
type CheckAllOutput struct {
	World   string         `json:"world"`
	Summary string         `json:"summary"`
	Results []ResultOutput `json:"results"`
}

// ParametersOutput lists inferred parameters. Template is the resolved
// template for objects and empty when the object resolves to none.
type ParametersOutput struct {
	Name       string            `json:"name"`
	Template   string            `json:"template,omitempty"`
	Parameters []engine.ParamRow `json:"parameters"`
}

// ListKindsOutput lists registered kinds.
type ListKindsOutput struct {
	Kinds []engine.KindRow `json:"kinds"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "check_all",
		Description: "Run every consistency check over the loaded world",
	}, s.handleCheckAll)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "template_parameters",
		Description: "List the parameters a template and its ancestors require, with inferred type and role",
	}, s.handleTemplateParameters)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "quest_parameters",
		Description: "List the parameters a quest requires, with inferred type and role",
	}, s.handleQuestParameters)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "object_parameters",
		Description: "List the parameters a placed object must bind for its template",
	}, s.handleObjectParameters)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_kinds",
		Description: "List the supported trigger, reward and sequence operation kinds",
	}, s.handleListKinds)
}

func (s *Server) handleCheckAll(ctx context.Context, req *sdk.CallToolRequest, input CheckAllInput) (*sdk.CallToolResult, CheckAllOutput, error) {
	var kind sanity.ContextKind
	if input.Kind != "" {
		if err := kind.UnmarshalText([]byte(input.Kind)); err != nil {
			return nil, CheckAllOutput{}, err
		}
	}

	s.mu.Lock()
	results := s.cfg.Filter(s.engine.CheckAll())
	s.mu.Unlock()

	out := CheckAllOutput{World: s.world, Results: make([]ResultOutput, 0, len(results))}
	var kept []sanity.Result
	for _, r := range results {
		if input.Kind != "" && r.Kind != kind {
			continue
		}
		if input.Resource != "" && !strings.EqualFold(r.Resource, input.Resource) {
			continue
		}
		kept = append(kept, r)
		out.Results = append(out.Results, resultOutput(r))
	}
	out.Summary = sanity.Summary(kept)
	return nil, out, nil
}

func resultOutput(r sanity.Result) ResultOutput {
	return ResultOutput{
		Kind:     r.Kind.String(),
		Resource: r.Resource,
		Location: r.Location,
		Message:  r.Message,
		Hint:     r.Hint,
	}
}

func (s *Server) handleTemplateParameters(ctx context.Context, req *sdk.CallToolRequest, input NameInput) (*sdk.CallToolResult, ParametersOutput, error) {
	if input.Name == "" {
		return nil, ParametersOutput{}, fmt.Errorf("name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl, ok := s.engine.Repo.FindTemplate(input.Name)
	if !ok {
		return nil, ParametersOutput{}, fmt.Errorf("template %q not found", input.Name)
	}
	rows := s.engine.Describe(s.engine.TemplateParameters(tpl))
	return nil, ParametersOutput{Name: tpl.Name, Template: tpl.Name, Parameters: rows}, nil
}

func (s *Server) handleQuestParameters(ctx context.Context, req *sdk.CallToolRequest, input NameInput) (*sdk.CallToolResult, ParametersOutput, error) {
	if input.Name == "" {
		return nil, ParametersOutput{}, fmt.Errorf("name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.engine.Repo.FindQuest(input.Name)
	if !ok {
		return nil, ParametersOutput{}, fmt.Errorf("quest %q not found", input.Name)
	}
	rows := s.engine.Describe(s.engine.QuestParameters(q))
	return nil, ParametersOutput{Name: q.Name, Parameters: rows}, nil
}

func (s *Server) handleObjectParameters(ctx context.Context, req *sdk.CallToolRequest, input NameInput) (*sdk.CallToolResult, ParametersOutput, error) {
	if input.Name == "" {
		return nil, ParametersOutput{}, fmt.Errorf("name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.engine.Repo.FindObject(input.Name)
	if !ok {
		return nil, ParametersOutput{}, fmt.Errorf("object %q not found", input.Name)
	}
	out := ParametersOutput{Name: obj.Name, Parameters: []engine.ParamRow{}}
	if tpl, ok := s.engine.ResolveTemplate(obj); ok {
		out.Template = tpl.Name
		out.Parameters = s.engine.Describe(s.engine.ObjectParameters(obj))
	}
	return nil, out, nil
}

func (s *Server) handleListKinds(ctx context.Context, req *sdk.CallToolRequest, input ListKindsInput) (*sdk.CallToolResult, ListKindsOutput, error) {
	out := ListKindsOutput{Kinds: []engine.KindRow{}}
	for _, k := range s.engine.ListKinds() {
		if input.Family != "" && k.Family != input.Family {
			continue
		}
		out.Kinds = append(out.Kinds, k)
	}
	if input.Family != "" && len(out.Kinds) == 0 {
		return nil, out, fmt.Errorf("unknown kind family %q", input.Family)
	}
	return nil, out, nil
}
