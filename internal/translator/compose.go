package translator

import (
	"context"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// Propagation is a bind-mount propagation mode carried from compose volume
// syntax to the generated volume mounts.
type Propagation string

const (
	// PropagationNone leaves the volume mount untouched.
	PropagationNone Propagation = ""
	// PropagationBidirectional maps the compose rshared mode.
	PropagationBidirectional Propagation = "Bidirectional"
	// PropagationHostToContainer maps the compose rslave mode.
	PropagationHostToContainer Propagation = "HostToContainer"
)

var propagationModes = map[string]Propagation{
	"rshared": PropagationBidirectional,
	"rslave":  PropagationHostToContainer,
}

// loadComposeProject parses a compose descriptor with the compose-go loader.
// Validation and normalization are skipped: the descriptor is handed to the
// converter verbatim, the loader is only used for typed access to the service
// map and its volumes.
func loadComposeProject(ctx context.Context, data []byte) (*types.Project, error) {
	var dict map[string]interface{}
	if err := yaml.Unmarshal(data, &dict); err != nil || dict == nil {
		return nil, malformedf("not a valid YAML file")
	}

	project, err := loader.LoadWithContext(ctx, types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Content: data,
				Config:  dict,
			},
		},
	}, func(opts *loader.Options) {
		opts.SetProjectName("adtctl", false)
		opts.SkipValidation = true
		opts.SkipInterpolation = true
		opts.SkipNormalization = true
		opts.SkipExtends = true
	})
	if err != nil {
		return nil, malformedf("invalid compose descriptor: %v", err)
	}

	return project, nil
}

// singleService returns the sole service of the compose project. Conversion of
// multi-service files is not supported.
func singleService(project *types.Project) (string, types.ServiceConfig, error) {
	if len(project.Services) > 1 {
		return "", types.ServiceConfig{}, validationf("compose file defines more than one service")
	}
	for name, svc := range project.Services {
		return name, svc, nil
	}
	return "", types.ServiceConfig{}, validationf("compose file defines no services")
}

// bindPropagation maps each service volume, in order, to a mount propagation
// hint. The positions line up with the volumeMounts the converter generates
// for the same service, which is what lets the hints be re-applied after
// conversion. That ordering contract is load-bearing: kompose emits
// volumeMounts in the order the compose volumes were declared.
func bindPropagation(svc types.ServiceConfig) []Propagation {
	hints := make([]Propagation, 0, len(svc.Volumes))
	for _, vol := range svc.Volumes {
		if vol.Bind == nil {
			hints = append(hints, PropagationNone)
			continue
		}
		hints = append(hints, propagationModes[vol.Bind.Propagation])
	}
	return hints
}
