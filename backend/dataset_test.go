package backend

import "testing"

func TestDataset(t *testing.T) {
	var d Dataset
	if d.Initialized() {
		t.Errorf("empty dataset should not report initialized")
	}
	d.SetHeadings([]string{"cpu", "gpu"}, []int{7, 9})
	if len(d.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(d.Series))
	}
	if d.Series[0].Name() != "cpu" || d.Series[1].Name() != "gpu" {
		t.Errorf("series names not mapped from headings: %q, %q", d.Series[0].Name(), d.Series[1].Name())
	}
	if d.Initialized() {
		t.Errorf("dataset with no samples should not report initialized")
	}
	d.Insert(Sample{TimestampNS: 10, Series: 7, Value: 1})
	d.Insert(Sample{TimestampNS: 20, Series: 9, Value: 2})
	if !d.Initialized() {
		t.Errorf("dataset with samples in every series should report initialized")
	}
	if d.Series[0].Len() != 1 || d.Series[1].Len() != 1 {
		t.Errorf("samples not routed by backend series ID: %d, %d", d.Series[0].Len(), d.Series[1].Len())
	}
	// Samples for unregistered series IDs are discarded.
	d.Insert(Sample{TimestampNS: 30, Series: 42, Value: 3})
	if d.Series[0].Len() != 1 || d.Series[1].Len() != 1 {
		t.Errorf("unregistered sample modified the dataset")
	}
	// A second round of headings registers more series.
	d.SetHeadings([]string{"mem"}, []int{11})
	d.Insert(Sample{TimestampNS: 30, Series: 11, Value: 3})
	if d.Series[2].Name() != "mem" || d.Series[2].Len() != 1 {
		t.Errorf("late heading registration failed: %q with %d samples", d.Series[2].Name(), d.Series[2].Len())
	}
	_, dMax := d.Domain()
	if dMax != 30 {
		t.Errorf("expected domain max 30, got %d", dMax)
	}
}
