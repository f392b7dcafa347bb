package main

import (
	"fmt"
	"io"
	"text/template"
	"time"
)

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Report is a finished run plus the verification outcome, if one was made.
type Report struct {
	*Result
	Verified bool
	Second   *Result
	TopN     int
}

const reportTemplate = `
# Arena Battle Report

## Battle
- **Battle ID:** {{.BattleID}}
- **Seed:** {{.Seed}}
- **Steps:** {{.Steps}} ({{printf "%.2f" .SimSeconds}}s simulated)

## Score
- **Red:** {{.Red}} kills, {{.RedDeaths}} deaths
- **Blue:** {{.Blue}} kills, {{.BlueDeaths}} deaths
- **Shots fired:** {{.Shots}}
- **Damage events:** {{.Hits}} ({{pct .Hits .Shots}} per shot)
- **Robots alive:** {{.Alive}}, respawns pending: {{.Pending}}
{{- if .Leaders}}

## Top Robots
{{- range top .Leaders .TopN}}
- robot {{.Id}}: {{.Kills}} kills
{{- end}}
{{- end}}

## Performance
- **Wall time:** {{.WallTime}}
- **Step Time:**
  - **Avg:** {{.StepTime.Avg}}
  - **Min:** {{.StepTime.Min}}
  - **Max:** {{.StepTime.Max}}

## Determinism
- **Trace records:** {{.Records}}
- **Trace digest:** {{hex .Digest}}
- **Final fingerprint:** {{hex .Fingerprint}}
{{- if .Verified}}
- **Second run digest:** {{hex .Second.Digest}} (match)
{{- end}}
`

var reportFuncs = template.FuncMap{
	"hex": func(v uint64) string {
		return fmt.Sprintf("%016x", v)
	},
	"pct": func(a, b int) string {
		if b == 0 {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", float64(a)/float64(b))
	},
	"top": func(leaders []Leader, n int) []Leader {
		if n > 0 && len(leaders) > n {
			return leaders[:n]
		}
		return leaders
	},
}

func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
