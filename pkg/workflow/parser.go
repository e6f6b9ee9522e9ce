package workflow

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/FlowForge/flowforge/pkg/service"
)

// Parser loads workflow definitions from YAML documents, resolving service
// references through a Registry.
//
// Document shape:
//
//	name: order-fulfilment
//	transactional: true
//	steps:
//	  - name: charge
//	    service: payments.charge
//	    input:
//	      amount: "{params.amount}"
//	    rollback: payments.refund
//	  - fork: shipping-route
//	    branches:
//	      - name: express
//	        condition: params.express == true
//	        steps:
//	          - name: express-label
//	            service: shipping.express
//	      - name: standard
//	        steps:
//	          - name: standard-label
//	            service: shipping.standard
type Parser struct {
	registry *service.Registry
}

// NewParser creates a Parser over the given service registry.
func NewParser(registry *service.Registry) *Parser {
	return &Parser{registry: registry}
}

type fileDefinition struct {
	Name          string     `yaml:"name" validate:"required,min=1"`
	Transactional bool       `yaml:"transactional"`
	Steps         []fileItem `yaml:"steps" validate:"required,min=1"`
}

type fileItem struct {
	fileStep `yaml:",inline"`

	Fork     string       `yaml:"fork"`
	Branches []fileBranch `yaml:"branches"`
}

type fileStep struct {
	Name      string         `yaml:"name"`
	Service   string         `yaml:"service"`
	Optional  bool           `yaml:"optional"`
	Condition string         `yaml:"condition"`
	Input     map[string]any `yaml:"input"`
	Rollback  string         `yaml:"rollback"`
}

type fileBranch struct {
	Name      string     `yaml:"name"`
	Condition string     `yaml:"condition"`
	Steps     []fileStep `yaml:"steps"`
}

// ParseFile loads a workflow definition from a YAML file.
func (p *Parser) ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	return p.Parse(data)
}

// Parse builds a validated Definition from a YAML document.
func (p *Parser) Parse(data []byte) (*Definition, error) {
	var file fileDefinition
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &DefinitionError{Detail: fmt.Sprintf("failed to parse YAML: %v", err)}
	}

	if err := validate.Struct(&file); err != nil {
		return nil, &DefinitionError{Workflow: file.Name, Detail: err.Error()}
	}

	builder := New(file.Name)
	if file.Transactional {
		builder.InTransaction()
	}

	for _, item := range file.Steps {
		if item.Fork != "" {
			fork, err := p.buildFork(file.Name, item)
			if err != nil {
				return nil, err
			}
			builder.def.Items = append(builder.def.Items, fork)
			continue
		}

		step, err := p.buildStep(file.Name, item.fileStep)
		if err != nil {
			return nil, err
		}
		builder.Step(step)
	}

	return builder.Build()
}

func (p *Parser) buildFork(workflow string, item fileItem) (*Fork, error) {
	if item.Name != "" || item.Service != "" {
		return nil, &DefinitionError{Workflow: workflow, Detail: fmt.Sprintf("fork %s mixes step and fork fields", item.Fork)}
	}

	fork := &Fork{Name: item.Fork}
	for _, fb := range item.Branches {
		branch := &Branch{Name: fb.Name}
		if fb.Condition != "" {
			branch.Guard = Expr(fb.Condition)
		}
		for _, fs := range fb.Steps {
			step, err := p.buildStep(workflow, fs)
			if err != nil {
				return nil, err
			}
			branch.Steps = append(branch.Steps, step)
		}
		fork.Branches = append(fork.Branches, branch)
	}

	return fork, nil
}

func (p *Parser) buildStep(workflow string, fs fileStep) (*Step, error) {
	if fs.Name == "" {
		return nil, &DefinitionError{Workflow: workflow, Detail: "step name is required"}
	}
	if fs.Service == "" {
		return nil, &DefinitionError{Workflow: workflow, Detail: fmt.Sprintf("step %s has no service", fs.Name)}
	}

	svc, err := p.registry.Get(fs.Service)
	if err != nil {
		return nil, &DefinitionError{Workflow: workflow, Detail: fmt.Sprintf("step %s: %v", fs.Name, err)}
	}

	step := &Step{
		Name:     fs.Name,
		Service:  svc,
		Optional: fs.Optional,
	}

	if fs.Condition != "" {
		step.Condition = Expr(fs.Condition)
	}

	if fs.Input != nil {
		input := fs.Input
		step.Input = func(ctx *Context) (service.Params, error) {
			interpolated, err := NewInterpolator(ctx).InterpolateMap(input)
			if err != nil {
				return nil, err
			}
			return service.Params(interpolated), nil
		}
	}

	if fs.Rollback != "" {
		rollbackSvc, err := p.registry.Get(fs.Rollback)
		if err != nil {
			return nil, &DefinitionError{Workflow: workflow, Detail: fmt.Sprintf("step %s rollback: %v", fs.Name, err)}
		}

		stepName := fs.Name
		step.Rollback = func(ctx *Context) error {
			params := service.Params(ctx.Params())
			result, err := rollbackSvc.Call(context.Background(), ctx.User(), params)
			if err != nil {
				return err
			}
			if result != nil && !result.Success {
				return fmt.Errorf("rollback service for step %s returned failure: %v", stepName, serviceFailure(result))
			}
			return nil
		}
	}

	return step, nil
}
