package task

type Stats struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	Pending      int `json:"pending"`
	HighPriority int `json:"high_priority"`
}

// ComputeStats считает сводку по уже полученному списку задач
func ComputeStats(tasks []*Task) Stats {
	var stats Stats
	for _, t := range tasks {
		stats.Total++
		if t.Completed {
			stats.Completed++
			continue
		}
		stats.Pending++
		if t.Priority == PriorityHigh {
			stats.HighPriority++
		}
	}
	return stats
}
