package translator

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	kubernetesNodeType = "tosca.nodes.MiCADO.Kubernetes"
	configNodeType     = "tosca.nodes.MiCADO.Container.Config.Kubernetes"
)

// NodeTemplate is one entry in the ADT node_templates mapping.
type NodeTemplate struct {
	Type       string                 `yaml:"type"`
	Properties map[string]interface{} `yaml:"properties,omitempty"`
	Interfaces map[string]interface{} `yaml:"interfaces,omitempty"`
}

// manifestNode inlines a Kubernetes manifest under a node template.
func manifestNode(doc Document) NodeTemplate {
	return NodeTemplate{
		Type: kubernetesNodeType,
		Interfaces: map[string]interface{}{
			"Kubernetes": map[string]interface{}{
				"create": map[string]interface{}{
					"inputs": doc,
				},
			},
		},
	}
}

// configNode wraps a configuration file as a single-file ConfigMap node.
func configNode(fileName, fileContent string) NodeTemplate {
	return NodeTemplate{
		Type: configNodeType,
		Properties: map[string]interface{}{
			"data": map[string]interface{}{
				fileName: fileContent,
			},
		},
	}
}

// NodeTemplates is an insertion-ordered node-name to NodeTemplate mapping.
// yaml.v3 sorts plain map keys on encode, but the output format keeps nodes in
// input document order, so the mapping node is built by hand on marshal.
type NodeTemplates struct {
	names []string
	nodes map[string]NodeTemplate
}

// NewNodeTemplates returns an empty node template mapping.
func NewNodeTemplates() *NodeTemplates {
	return &NodeTemplates{nodes: make(map[string]NodeTemplate)}
}

// Set adds or replaces a node template. A replaced node keeps its original
// position.
func (t *NodeTemplates) Set(name string, node NodeTemplate) {
	if _, ok := t.nodes[name]; !ok {
		t.names = append(t.names, name)
	}
	t.nodes[name] = node
}

// Get returns the node template for name.
func (t *NodeTemplates) Get(name string) (NodeTemplate, bool) {
	node, ok := t.nodes[name]
	return node, ok
}

// Names returns the node names in insertion order.
func (t *NodeTemplates) Names() []string {
	return append([]string(nil), t.names...)
}

// Len returns the number of node templates.
func (t *NodeTemplates) Len() int {
	return len(t.names)
}

// MarshalYAML emits the mapping with keys in insertion order.
func (t *NodeTemplates) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range t.names {
		var key, value yaml.Node
		if err := key.Encode(name); err != nil {
			return nil, fmt.Errorf("failed to encode node name %s: %w", name, err)
		}
		if err := value.Encode(t.nodes[name]); err != nil {
			return nil, fmt.Errorf("failed to encode node template %s: %w", name, err)
		}
		root.Content = append(root.Content, &key, &value)
	}
	return root, nil
}

// ADT is the output root consumed by the MiCADO orchestrator.
type ADT struct {
	NodeTemplates *NodeTemplates `yaml:"node_templates"`
}

// Envelope wraps the ADT under the topology_template key.
type Envelope struct {
	TopologyTemplate ADT `yaml:"topology_template"`
}

// serialize renders the enveloped ADT as YAML.
func serialize(adt ADT) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Envelope{TopologyTemplate: adt}); err != nil {
		return nil, fmt.Errorf("failed to serialize ADT: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize ADT: %w", err)
	}
	return buf.Bytes(), nil
}

var nodeNameReplacer = strings.NewReplacer(".", "-", "_", "-", " ", "-")

// sanitizeNodeName derives a node name from a file name.
func sanitizeNodeName(name string) string {
	return nodeNameReplacer.Replace(strings.ToLower(name))
}
