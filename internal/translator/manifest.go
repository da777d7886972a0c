package translator

import (
	"path"
	"strings"

	"github.com/micado-scale/adtctl/internal/utils/logger"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// workloadKinds are the manifest kinds that represent a runnable unit. A
// translation unit may contain at most one of them.
var workloadKinds = map[string]bool{
	"deployment":  true,
	"pod":         true,
	"statefulset": true,
	"daemonset":   true,
}

func isWorkload(kind string) bool {
	return workloadKinds[kind]
}

func countWorkloads(docs []Document) int {
	n := 0
	for _, doc := range docs {
		if kind, found, err := unstructured.NestedString(doc, "kind"); err == nil && found {
			if isWorkload(strings.ToLower(kind)) {
				n++
			}
		}
	}
	return n
}

// transformManifests builds the node_templates mapping for a manifest set.
// Configuration nodes come first, then one node per manifest in input order.
func transformManifests(docs []Document, hints []Propagation, configs []ConfigData) (*NodeTemplates, error) {
	if n := countWorkloads(docs); n > 1 {
		return nil, validationf("manifest file cannot have more than one workload, found %d", n)
	}

	templates := NewNodeTemplates()
	addConfigNodes(templates, configs)

	for _, doc := range docs {
		name, kind, err := objectIdentity(doc)
		if err != nil {
			return nil, err
		}

		if isWorkload(kind) {
			if spec, container := specAndContainer(doc); container != nil {
				applyPropagation(container, hints)
				injectConfigMounts(spec, container, configs)
			}
		}

		stripEphemeral(doc)
		templates.Set(name+"-"+kind, manifestNode(doc))
	}

	return templates, nil
}

// objectIdentity returns the lowercased metadata.name and kind of a manifest.
func objectIdentity(doc Document) (string, string, error) {
	kind, found, err := unstructured.NestedString(doc, "kind")
	if err != nil || !found || kind == "" {
		return "", "", malformedf("manifest is missing a kind")
	}
	name, found, err := unstructured.NestedString(doc, "metadata", "name")
	if err != nil || !found || name == "" {
		return "", "", malformedf("%s manifest is missing metadata.name", kind)
	}
	return strings.ToLower(name), strings.ToLower(kind), nil
}

// specAndContainer locates the pod spec and its first container. Deployments,
// StatefulSets and DaemonSets keep containers behind the pod-template
// indirection; bare Pods hold them directly under spec. A workload without a
// reachable container list yields (nil, nil) and is emitted untouched.
func specAndContainer(doc Document) (map[string]interface{}, map[string]interface{}) {
	spec, ok := nestedMap(doc, "spec")
	if !ok {
		return nil, nil
	}
	if _, has := spec["containers"]; !has {
		if spec, ok = nestedMap(spec, "template", "spec"); !ok {
			return nil, nil
		}
	}

	containers, ok := spec["containers"].([]interface{})
	if !ok || len(containers) == 0 {
		return nil, nil
	}
	container, ok := containers[0].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return spec, container
}

func nestedMap(obj map[string]interface{}, fields ...string) (map[string]interface{}, bool) {
	val, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if err != nil || !found {
		return nil, false
	}
	m, ok := val.(map[string]interface{})
	return m, ok
}

// applyPropagation re-applies bind propagation hints onto the converted
// container's volumeMounts by position, shortest sequence wins. A length
// mismatch means the converter reordered or merged volumes; that is logged,
// not fatal.
func applyPropagation(container map[string]interface{}, hints []Propagation) {
	if len(hints) == 0 {
		return
	}
	mounts, _ := container["volumeMounts"].([]interface{})
	if len(mounts) != len(hints) {
		logger.Warn("compose volumes and converted volumeMounts differ in length, applying hints by shared prefix",
			zap.Int("volumes", len(hints)),
			zap.Int("volume_mounts", len(mounts)))
	}
	for i, hint := range hints {
		if hint == PropagationNone || i >= len(mounts) {
			continue
		}
		if mount, ok := mounts[i].(map[string]interface{}); ok {
			mount["mountPropagation"] = string(hint)
		}
	}
}

// injectConfigMounts mounts each configuration file into the container via
// subPath so single files land at their exact path, and registers a matching
// configMap volume on the spec. The volume list is shared by all containers
// in the spec, so volume entries are deduplicated by name; duplicate volume
// names are invalid in Kubernetes.
func injectConfigMounts(spec, container map[string]interface{}, configs []ConfigData) {
	if len(configs) == 0 {
		return
	}

	volumes, _ := spec["volumes"].([]interface{})
	seen := make(map[string]bool, len(volumes))
	for _, vol := range volumes {
		if m, ok := vol.(map[string]interface{}); ok {
			if name, ok := m["name"].(string); ok {
				seen[name] = true
			}
		}
	}

	mounts, _ := container["volumeMounts"].([]interface{})
	for _, cfg := range configs {
		fileName := path.Base(cfg.FilePath)
		volName := sanitizeNodeName(fileName)

		if !seen[volName] {
			volumes = append(volumes, map[string]interface{}{
				"name": volName,
				"configMap": map[string]interface{}{
					"name": volName,
				},
			})
			seen[volName] = true
		}

		mount := map[string]interface{}{
			"name":      volName,
			"mountPath": cfg.FilePath,
			"subPath":   fileName,
		}
		if cfg.MountPropagation != "" {
			mount["mountPropagation"] = cfg.MountPropagation
		}
		mounts = append(mounts, mount)
	}

	spec["volumes"] = volumes
	container["volumeMounts"] = mounts
}

// addConfigNodes seeds one config node per configuration entry, named after
// the sanitized file basename.
func addConfigNodes(templates *NodeTemplates, configs []ConfigData) {
	for _, cfg := range configs {
		fileName := path.Base(cfg.FilePath)
		templates.Set(sanitizeNodeName(fileName), configNode(fileName, cfg.FileContent))
	}
}

// stripEphemeral removes cluster-assigned bookkeeping so repeated translations
// of the same input are byte-identical.
func stripEphemeral(doc Document) {
	unstructured.RemoveNestedField(doc, "status")
	unstructured.RemoveNestedField(doc, "metadata", "annotations")
	unstructured.RemoveNestedField(doc, "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(doc, "spec", "template", "metadata", "annotations")
	unstructured.RemoveNestedField(doc, "spec", "template", "metadata", "creationTimestamp")
}
