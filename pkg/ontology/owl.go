package ontology

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// W3C namespaces used in the OWL/XML serialization.
const (
	rdfNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfsNS = "http://www.w3.org/2000/01/rdf-schema#"
	owlNS  = "http://www.w3.org/2002/07/owl#"
	xsdNS  = "http://www.w3.org/2001/XMLSchema#"
)

// OntologyLoadError reports a missing or malformed ontology file.
type OntologyLoadError struct {
	Path  string
	Cause error
}

func (e *OntologyLoadError) Error() string {
	return fmt.Sprintf("load ontology %s: %v", e.Path, e.Cause)
}

func (e *OntologyLoadError) Unwrap() error {
	return e.Cause
}

// IsLoadError reports whether err is an OntologyLoadError.
func IsLoadError(err error) bool {
	var ole *OntologyLoadError
	return errors.As(err, &ole)
}

// Load reads an OWL/XML file into a fresh in-memory graph.
func Load(path string) (*Ontology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &OntologyLoadError{Path: path, Cause: err}
	}
	o, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &OntologyLoadError{Path: path, Cause: err}
	}
	o.path = path
	return o, nil
}

// Parse decodes an OWL/XML document from r.
func Parse(r io.Reader) (*Ontology, error) {
	o := New()
	d := xml.NewDecoder(r)

	sawRDF := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch {
		case start.Name.Space == rdfNS && start.Name.Local == "RDF":
			sawRDF = true
		case start.Name.Space == owlNS && start.Name.Local == "Ontology":
			if err := d.Skip(); err != nil {
				return nil, fmt.Errorf("malformed ontology header: %w", err)
			}
		case start.Name.Space == owlNS && start.Name.Local == "Class":
			if err := o.parseClass(d, start); err != nil {
				return nil, err
			}
		case start.Name.Space == owlNS && start.Name.Local == "ObjectProperty":
			o.objectProps[localName(attrValue(start, "about"))] = true
			if err := d.Skip(); err != nil {
				return nil, fmt.Errorf("malformed object property: %w", err)
			}
		case start.Name.Space == owlNS && start.Name.Local == "DatatypeProperty":
			o.dataProps[localName(attrValue(start, "about"))] = true
			if err := d.Skip(); err != nil {
				return nil, fmt.Errorf("malformed datatype property: %w", err)
			}
		case start.Name.Space == owlNS && start.Name.Local == "NamedIndividual":
			if err := o.parseIndividual(d, start); err != nil {
				return nil, err
			}
		default:
			if sawRDF {
				if err := d.Skip(); err != nil {
					return nil, fmt.Errorf("malformed element %s: %w", start.Name.Local, err)
				}
			}
		}
	}

	if !sawRDF {
		return nil, errors.New("not an RDF/XML document: missing rdf:RDF root")
	}
	return o, nil
}

func (o *Ontology) parseClass(d *xml.Decoder, start xml.StartElement) error {
	name := localName(attrValue(start, "about"))
	if name == "" {
		return errors.New("owl:Class without rdf:about")
	}

	var parents []string
	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("malformed class %s: %w", name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == rdfsNS && t.Name.Local == "subClassOf" {
				if parent := localName(attrValue(t, "resource")); parent != "" {
					parents = append(parents, parent)
				}
			}
			if err := d.Skip(); err != nil {
				return fmt.Errorf("malformed class %s: %w", name, err)
			}
		case xml.EndElement:
			o.addClassLocked(name, parents...)
			return nil
		}
	}
}

func (o *Ontology) parseIndividual(d *xml.Decoder, start xml.StartElement) error {
	name := localName(attrValue(start, "about"))
	if name == "" {
		return errors.New("owl:NamedIndividual without rdf:about")
	}

	ind := &Individual{
		Name:    name,
		Ints:    make(map[string]int),
		Strs:    make(map[string]string),
		Objects: make(map[string][]string),
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("malformed individual %s: %w", name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := o.parseIndividualProperty(d, t, ind); err != nil {
				return fmt.Errorf("individual %s: %w", name, err)
			}
		case xml.EndElement:
			o.individuals[name] = ind
			return nil
		}
	}
}

func (o *Ontology) parseIndividualProperty(d *xml.Decoder, start xml.StartElement, ind *Individual) error {
	// rdf:type declares class membership.
	if start.Name.Space == rdfNS && start.Name.Local == "type" {
		if typ := localName(attrValue(start, "resource")); typ != "" {
			ind.Types = append(ind.Types, typ)
		}
		return d.Skip()
	}

	prop := start.Name.Local

	// Object property: points at another individual via rdf:resource.
	if target := localName(attrValue(start, "resource")); target != "" {
		ind.Objects[prop] = append(ind.Objects[prop], target)
		o.objectProps[prop] = true
		return d.Skip()
	}

	// Data property: literal element content.
	datatype := attrValue(start, "datatype")
	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("property %s: %w", prop, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			value := strings.TrimSpace(text.String())
			o.dataProps[prop] = true
			if strings.HasSuffix(datatype, "integer") || strings.HasSuffix(datatype, "int") {
				n, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("property %s: integer literal %q: %w", prop, value, err)
				}
				ind.Ints[prop] = n
			} else {
				ind.Strs[prop] = value
			}
			return nil
		case xml.StartElement:
			return fmt.Errorf("property %s: unexpected nested element %s", prop, t.Name.Local)
		}
	}
}

// Save serializes the graph back to the file it was loaded from.
func (o *Ontology) Save() error {
	o.mu.RLock()
	path := o.path
	o.mu.RUnlock()
	if path == "" {
		return errors.New("ontology has no source path; use SaveTo")
	}
	return o.SaveTo(path)
}

// SaveTo serializes the full graph to path, atomically overwriting any
// previous content.
func (o *Ontology) SaveTo(path string) error {
	o.mu.RLock()
	data := o.serialize()
	o.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create ontology directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write ontology: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename ontology into place: %w", err)
	}

	o.mu.Lock()
	o.path = path
	o.mu.Unlock()
	return nil
}

// serialize renders deterministic RDF/XML: entities are emitted in sorted
// order so saves are diffable.
func (o *Ontology) serialize() []byte {
	var b bytes.Buffer

	b.WriteString(xml.Header)
	fmt.Fprintf(&b, "<rdf:RDF xmlns:rdf=%q\n", rdfNS)
	fmt.Fprintf(&b, "         xmlns:rdfs=%q\n", rdfsNS)
	fmt.Fprintf(&b, "         xmlns:owl=%q\n", owlNS)
	fmt.Fprintf(&b, "         xmlns:xsd=%q\n", xsdNS)
	fmt.Fprintf(&b, "         xmlns=%q\n", BaseIRI+"#")
	fmt.Fprintf(&b, "         xml:base=%q>\n", BaseIRI)
	fmt.Fprintf(&b, "  <owl:Ontology rdf:about=%q/>\n", BaseIRI)

	for _, name := range sortedKeys(o.objectProps) {
		fmt.Fprintf(&b, "  <owl:ObjectProperty rdf:about=\"#%s\"/>\n", xmlEscape(name))
	}
	for _, name := range sortedKeys(o.dataProps) {
		fmt.Fprintf(&b, "  <owl:DatatypeProperty rdf:about=\"#%s\"/>\n", xmlEscape(name))
	}

	classNames := make([]string, 0, len(o.classes))
	for name := range o.classes {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)
	for _, name := range classNames {
		c := o.classes[name]
		if len(c.Parents) == 0 {
			fmt.Fprintf(&b, "  <owl:Class rdf:about=\"#%s\"/>\n", xmlEscape(name))
			continue
		}
		fmt.Fprintf(&b, "  <owl:Class rdf:about=\"#%s\">\n", xmlEscape(name))
		for _, p := range c.Parents {
			fmt.Fprintf(&b, "    <rdfs:subClassOf rdf:resource=\"#%s\"/>\n", xmlEscape(p))
		}
		b.WriteString("  </owl:Class>\n")
	}

	indNames := make([]string, 0, len(o.individuals))
	for name := range o.individuals {
		indNames = append(indNames, name)
	}
	sort.Strings(indNames)
	for _, name := range indNames {
		o.serializeIndividual(&b, o.individuals[name])
	}

	b.WriteString("</rdf:RDF>\n")
	return b.Bytes()
}

func (o *Ontology) serializeIndividual(b *bytes.Buffer, ind *Individual) {
	fmt.Fprintf(b, "  <owl:NamedIndividual rdf:about=\"#%s\">\n", xmlEscape(ind.Name))
	for _, t := range ind.Types {
		fmt.Fprintf(b, "    <rdf:type rdf:resource=\"#%s\"/>\n", xmlEscape(t))
	}
	for _, prop := range sortedMapKeys(ind.Ints) {
		fmt.Fprintf(b, "    <%s rdf:datatype=\"%sinteger\">%d</%s>\n",
			prop, xsdNS, ind.Ints[prop], prop)
	}
	for _, prop := range sortedMapKeys(ind.Strs) {
		fmt.Fprintf(b, "    <%s rdf:datatype=\"%sstring\">%s</%s>\n",
			prop, xsdNS, xmlEscape(ind.Strs[prop]), prop)
	}
	for _, prop := range sortedKeysSlices(ind.Objects) {
		for _, target := range ind.Objects[prop] {
			fmt.Fprintf(b, "    <%s rdf:resource=\"#%s\"/>\n", prop, xmlEscape(target))
		}
	}
	b.WriteString("  </owl:NamedIndividual>\n")
}

// localName strips a namespace or fragment prefix from an IRI reference.
func localName(ref string) string {
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		return ref[i+1:]
	}
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// attrValue finds an attribute by local name regardless of prefix.
func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func xmlEscape(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedMapKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeysSlices(m map[string][]string) []string {
	return sortedMapKeys(m)
}
