package health

import (
	"os"
	"time"
)

// Common health check functions

// SimpleCheck creates a simple health check that always returns healthy
func SimpleCheck(name string) Check {
	return Check{
		Name:        name,
		Status:      StatusHealthy,
		LastChecked: time.Now(),
	}
}

// ModelCheck creates a health check for the loaded classifier artifact
func ModelCheck(getModelState func() (loaded bool, classes, features int)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "model",
			Details: make(map[string]any),
		}

		loaded, classes, features := getModelState()

		check.Details["loaded"] = loaded
		check.Details["classes"] = classes
		check.Details["features"] = features

		if !loaded {
			check.Status = StatusUnhealthy
			check.Message = "No trained model loaded"
		} else {
			check.Status = StatusHealthy
			check.Message = "Model ready"
		}

		return check
	}
}

// OntologyCheck creates a health check for the loaded ontology
func OntologyCheck(getOntologyState func() (loaded bool, classes, individuals int)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "ontology",
			Details: make(map[string]any),
		}

		loaded, classes, individuals := getOntologyState()

		check.Details["loaded"] = loaded
		check.Details["classes"] = classes
		check.Details["individuals"] = individuals

		if !loaded {
			check.Status = StatusUnhealthy
			check.Message = "Ontology not loaded"
		} else if classes == 0 {
			check.Status = StatusDegraded
			check.Message = "Ontology is empty"
		} else {
			check.Status = StatusHealthy
			check.Message = "Ontology loaded"
		}

		return check
	}
}

// FileCheck creates a health check that verifies a required file exists
func FileCheck(name, path string) CheckFunc {
	return func() Check {
		check := Check{
			Name:    name,
			Details: map[string]any{"path": path},
		}

		info, err := os.Stat(path)
		if err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}

		check.Details["size_bytes"] = info.Size()
		check.Status = StatusHealthy
		check.Message = "File present"
		return check
	}
}

// DiskSpaceCheck creates a health check for disk space
func DiskSpaceCheck(getUsage func() (used, total uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "disk_space",
			Details: make(map[string]any),
		}

		used, total := getUsage()

		usagePercent := float64(used) / float64(total) * 100

		check.Details["used_bytes"] = used
		check.Details["total_bytes"] = total
		check.Details["usage_percent"] = usagePercent

		if usagePercent > 95 {
			check.Status = StatusUnhealthy
			check.Message = "Critical disk space"
		} else if usagePercent > 80 {
			check.Status = StatusDegraded
			check.Message = "Low disk space"
		} else {
			check.Status = StatusHealthy
			check.Message = "Sufficient disk space"
		}

		return check
	}
}

// MemoryCheck creates a health check for memory usage
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()

		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		// Consider degraded if allocated memory > 90% of system memory
		usagePercent := float64(alloc) / float64(sys) * 100

		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}

		return check
	}
}
