// Package ontology maintains the privacy-concept ontology: a class hierarchy
// with named individuals and their properties, loaded from an OWL/XML file
// into memory. Queries never consult an external reasoner; subclass closure
// is a plain graph traversal. Mutations touch only the in-memory graph and
// reach disk on an explicit Save.
//
// Known limitation: two handlers pointed at the same file can overwrite each
// other's saves. The file is not locked; last writer wins.
package ontology

import (
	"fmt"
	"sort"
	"sync"
)

// Core class names the handler queries by.
const (
	ClassPersonalData       = "PersonalData"
	ClassRisk               = "Risk"
	ClassMitigationStrategy = "MitigationStrategy"
)

// Data property names.
const (
	PropRiskLevel   = "riskLevel"
	PropDescription = "description"
)

// BaseIRI identifies the privacy ontology document.
const BaseIRI = "http://privalytics.io/ontologies/privacy"

// Class is an ontology class with zero or more parent classes.
type Class struct {
	Name    string
	Parents []string
}

// Individual is a named instance with its types and property values.
type Individual struct {
	Name    string
	Types   []string
	Ints    map[string]int
	Strs    map[string]string
	Objects map[string][]string // object property -> target individual names
}

// Ontology is the in-memory graph. Reads and writes are guarded so API
// handlers can mutate it while readers query.
type Ontology struct {
	mu          sync.RWMutex
	path        string
	classes     map[string]*Class
	individuals map[string]*Individual
	objectProps map[string]bool
	dataProps   map[string]bool
}

// New creates an empty ontology not yet bound to a file.
func New() *Ontology {
	return &Ontology{
		classes:     make(map[string]*Class),
		individuals: make(map[string]*Individual),
		objectProps: make(map[string]bool),
		dataProps:   make(map[string]bool),
	}
}

// Path returns the source file the ontology was loaded from, if any.
func (o *Ontology) Path() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.path
}

// Classes returns all class names, sorted.
func (o *Ontology) Classes() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := make([]string, 0, len(o.classes))
	for name := range o.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasClass reports whether the named class exists.
func (o *Ontology) HasClass(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.classes[name]
	return ok
}

// AddClass inserts a class with the given parents. Re-adding an existing
// class is a no-op; the original definition wins.
func (o *Ontology) AddClass(name string, parents ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.addClassLocked(name, parents...)
}

func (o *Ontology) addClassLocked(name string, parents ...string) {
	if _, exists := o.classes[name]; exists {
		return
	}
	o.classes[name] = &Class{Name: name, Parents: parents}
}

// SubclassesOf returns the transitive subclass closure of the named class,
// excluding the class itself, sorted. Unknown classes yield an empty set.
func (o *Ontology) SubclassesOf(name string) []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.subclassesLocked(name)
}

func (o *Ontology) subclassesLocked(name string) []string {
	children := make(map[string][]string, len(o.classes))
	for _, c := range o.classes {
		for _, p := range c.Parents {
			children[p] = append(children[p], c.Name)
		}
	}

	seen := make(map[string]bool)
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if !seen[child] {
				seen[child] = true
				queue = append(queue, child)
			}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// PersonalDataTypes returns every class under PersonalData.
func (o *Ontology) PersonalDataTypes() []string {
	return o.SubclassesOf(ClassPersonalData)
}

// AddPersonalData registers a new personal-data class. Idempotent.
func (o *Ontology) AddPersonalData(name string) {
	o.AddClass(name, ClassPersonalData)
}

// RiskLevels returns every Risk individual mapped to its declared level.
func (o *Ontology) RiskLevels() map[string]int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	riskTypes := map[string]bool{ClassRisk: true}
	for _, sub := range o.subclassesLocked(ClassRisk) {
		riskTypes[sub] = true
	}

	levels := make(map[string]int)
	for _, ind := range o.individuals {
		if !hasAnyType(ind, riskTypes) {
			continue
		}
		if level, ok := ind.Ints[PropRiskLevel]; ok {
			levels[ind.Name] = level
		}
	}
	return levels
}

// AddRisk inserts a Risk individual with the given level (1..5). Re-adding
// an existing name is a no-op, not an error.
func (o *Ontology) AddRisk(name string, level int) error {
	if level < 1 || level > 5 {
		return fmt.Errorf("risk level must be between 1 and 5, got %d", level)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.individuals[name]; exists {
		return nil
	}
	o.addClassLocked(ClassRisk)
	o.dataProps[PropRiskLevel] = true
	o.individuals[name] = &Individual{
		Name:  name,
		Types: []string{ClassRisk},
		Ints:  map[string]int{PropRiskLevel: level},
	}
	return nil
}

// AddMitigation inserts a MitigationStrategy individual covering the given
// risk level. Idempotent on name.
func (o *Ontology) AddMitigation(name string, level int, description string) error {
	if level < 1 || level > 5 {
		return fmt.Errorf("risk level must be between 1 and 5, got %d", level)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.individuals[name]; exists {
		return nil
	}
	o.addClassLocked(ClassMitigationStrategy)
	o.dataProps[PropRiskLevel] = true
	o.dataProps[PropDescription] = true
	o.individuals[name] = &Individual{
		Name:  name,
		Types: []string{ClassMitigationStrategy},
		Ints:  map[string]int{PropRiskLevel: level},
		Strs:  map[string]string{PropDescription: description},
	}
	return nil
}

// MitigationStrategies returns the descriptions of every strategy declared
// for the given risk level, sorted by individual name.
func (o *Ontology) MitigationStrategies(level int) ([]string, error) {
	if level < 1 || level > 5 {
		return nil, fmt.Errorf("risk level must be between 1 and 5, got %d", level)
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	var names []string
	for _, ind := range o.individuals {
		if !hasType(ind, ClassMitigationStrategy) {
			continue
		}
		if ind.Ints[PropRiskLevel] == level {
			names = append(names, ind.Name)
		}
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, n := range names {
		if desc, ok := o.individuals[n].Strs[PropDescription]; ok {
			out = append(out, desc)
		}
	}
	return out, nil
}

// Individuals returns the names of individuals carrying the given type,
// sorted. An empty typeName returns every individual.
func (o *Ontology) Individuals(typeName string) []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var names []string
	for _, ind := range o.individuals {
		if typeName == "" || hasType(ind, typeName) {
			names = append(names, ind.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Individual returns the named individual, or nil.
func (o *Ontology) Individual(name string) *Individual {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.individuals[name]
}

// Stats summarizes graph size for health checks and the dashboard.
func (o *Ontology) Stats() (classes, individuals int) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.classes), len(o.individuals)
}

func hasType(ind *Individual, typeName string) bool {
	for _, t := range ind.Types {
		if t == typeName {
			return true
		}
	}
	return false
}

func hasAnyType(ind *Individual, types map[string]bool) bool {
	for _, t := range ind.Types {
		if types[t] {
			return true
		}
	}
	return false
}
