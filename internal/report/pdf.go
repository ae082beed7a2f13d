package report

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

// WritePDF renders r as an A4 table to path.
func WritePDF(path string, r Report) error {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Project times", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				sub := r.Generated.Format("2006-01-02 15:04")
				if r.Filter != "" {
					sub = r.Filter + " · " + sub
				}
				m.Text(sub, props.Text{
					Top:   3,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	headers := []string{"Project", "Tags", "Time"}
	rows := make([][]string, 0, len(r.Projects))
	for _, p := range r.Projects {
		name := p.Name
		if p.Running {
			name += " (running)"
		}
		rows = append(rows, []string{name, strings.Join(p.Tags, ", "), p.Time})
	}

	if len(rows) > 0 {
		m.TableList(headers, rows, props.TableList{
			HeaderProp: props.TableListContent{
				Size:      10,
				GridSizes: []uint{5, 4, 3},
			},
			ContentProp: props.TableListContent{
				Size:      10,
				GridSizes: []uint{5, 4, 3},
			},
			Align:                consts.Center,
			AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
			HeaderContentSpace:   1,
			Line:                 false,
		})
	}

	m.Row(20, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Total: %s", r.Total), props.Text{
				Top:   10,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})

	if err := m.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing pdf %s: %w", path, err)
	}
	return nil
}
