package directory

import "github.com/staffdesk/staffdesk/hrapi"

// DepartmentBreakdown is one chart row: a department with its headcount and
// average salary.
type DepartmentBreakdown struct {
	Name          string
	EmployeeCount int
	AverageSalary int64
}

// Stats are the dashboard aggregates, computed over the full directory.
type Stats struct {
	TotalEmployees    int
	ActiveEmployees   int
	InactiveEmployees int
	TotalDepartments  int
	Departments       []DepartmentBreakdown
}

// BuildStats aggregates employees into the dashboard's chart data.
// Departments with no employees still appear with zero counts; employees
// without a department are grouped under "Unassigned".
func BuildStats(employees []hrapi.Employee, departments []hrapi.Department) Stats {
	stats := Stats{
		TotalEmployees:   len(employees),
		TotalDepartments: len(departments),
	}

	index := make(map[string]int, len(departments))
	for _, d := range departments {
		index[d.ID] = len(stats.Departments)
		stats.Departments = append(stats.Departments, DepartmentBreakdown{Name: d.Name})
	}

	totals := make([]int64, len(stats.Departments))
	var unassigned DepartmentBreakdown
	var unassignedTotal int64

	for _, e := range employees {
		if e.Status == hrapi.StatusActive {
			stats.ActiveEmployees++
		} else {
			stats.InactiveEmployees++
		}

		if e.Department == nil {
			unassigned.EmployeeCount++
			unassignedTotal += e.Salary
			continue
		}
		i, ok := index[e.Department.ID]
		if !ok {
			unassigned.EmployeeCount++
			unassignedTotal += e.Salary
			continue
		}
		stats.Departments[i].EmployeeCount++
		totals[i] += e.Salary
	}

	for i := range stats.Departments {
		if n := stats.Departments[i].EmployeeCount; n > 0 {
			stats.Departments[i].AverageSalary = totals[i] / int64(n)
		}
	}
	if unassigned.EmployeeCount > 0 {
		unassigned.Name = "Unassigned"
		unassigned.AverageSalary = unassignedTotal / int64(unassigned.EmployeeCount)
		stats.Departments = append(stats.Departments, unassigned)
	}

	return stats
}
