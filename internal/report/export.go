package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
)

// ExportCSV writes every sample of every client, one row each.
// Schema: client,index,latency_ns
func (rep *Report) ExportCSV(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"client", "index", "latency_ns"}); err != nil {
		return err
	}
	for _, r := range rep.Clients {
		client := strconv.Itoa(r.ID)
		for i, v := range r.Samples {
			record := []string{
				client,
				strconv.Itoa(i),
				strconv.FormatFloat(v, 'f', 0, 64),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// ExportJSON writes the per-client and global statistics plus the latency distribution.
func (rep *Report) ExportJSON(filename string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// ExportAll writes <prefix>.csv and <prefix>_summary.json.
func (rep *Report) ExportAll(prefix string) error {
	if err := rep.ExportCSV(prefix + ".csv"); err != nil {
		return err
	}
	return rep.ExportJSON(prefix + "_summary.json")
}
