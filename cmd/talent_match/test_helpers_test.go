package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const vacancyJSON = `{
  "id": "vac_data_001",
  "title": "Data Analyst",
  "required_skills": ["python", "sql"],
  "min_experience_years": 2,
  "max_experience_years": 5,
  "salary_range": {"min": 4000, "max": 8000},
  "location": "sao paulo",
  "modality": "hybrid",
  "category": "data"
}`

const candidatesJSON = `[
  {"id": "cand_b", "skills": ["python"], "experience_years": 1, "desired_salary": {"min": 9000},
   "location": "rio de janeiro", "modality": "remote", "availability": "30 days"},
  {"id": "cand_a", "skills": ["Python", "SQL", "React"], "experience_years": 3, "desired_salary": {"min": 5000},
   "location": "São Paulo", "modality": "hybrid", "availability": "immediate"}
]`

const talentPoolJSON = `[
  {"id": "reg_03", "skills": ["python", "sql"], "experience_years": 3, "area_of_interest": "Data", "availability": "immediate"},
  {"id": "reg_01", "skills": ["python", "sql"], "experience_years": 3, "area_of_interest": "Marketing", "availability": "immediate"},
  {"id": "reg_02", "skills": ["python", "sql"], "experience_years": 3, "availability": "immediate"},
  {"id": "reg_04", "skills": ["sql"], "experience_years": 1, "area_of_interest": " data ", "availability": "45 days"},
  {"id": "reg_05", "skills": ["python"], "area_of_interest": "   "}
]`

// writeTestFile writes content under dir and returns the absolute path
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs a fresh command tree in-process and captures its output
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
