package translator

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is one parsed YAML document from the input unit. The alias keeps
// the unstructured field helpers from apimachinery directly applicable.
type Document = map[string]interface{}

// loadDocuments parses raw YAML text into an ordered sequence of documents.
// Empty documents are dropped; document order is preserved.
func loadDocuments(data []byte) ([]Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []Document
	for {
		var doc Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformedf("not a valid YAML file")
		}
		if doc == nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// isCompose classifies an input unit by its first document: a top-level
// services key means docker-compose, anything else is treated as a set of
// Kubernetes manifests.
func isCompose(docs []Document) (bool, error) {
	if len(docs) == 0 {
		return false, malformedf("input contains no YAML documents")
	}
	_, ok := docs[0]["services"]
	return ok, nil
}
