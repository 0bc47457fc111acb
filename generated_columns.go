package main

import "fmt"

func collectGeneratedColumnWarnings(schema *Schema) []string {
	var warnings []string
	for _, t := range schema.Tables {
		for _, col := range t.Columns {
			if col.Generated {
				warnings = append(warnings, fmt.Sprintf(
					"generated column %s.%s is copied as plain data; its expression is not recreated", t.Name, col.Name))
			}
		}
	}
	return warnings
}
