package backend

import "testing"

func TestParseTraceRow(t *testing.T) {
	dataCols := []int{1, 2, 3}
	headingSeries := []int{5, 6, 7}
	type testcase struct {
		name      string
		rec       []string
		expected  []Sample
		expectErr bool
	}
	for _, tc := range []testcase{
		{
			name: "fully populated row",
			rec:  []string{"100", "1.5", "2.5", "3.5"},
			expected: []Sample{
				{TimestampNS: 100, Series: 5, Value: 1.5},
				{TimestampNS: 100, Series: 6, Value: 2.5},
				{TimestampNS: 100, Series: 7, Value: 3.5},
			},
		},
		{
			name: "null cells are skipped",
			rec:  []string{"100", "1.5", "", "3.5"},
			expected: []Sample{
				{TimestampNS: 100, Series: 5, Value: 1.5},
				{TimestampNS: 100, Series: 7, Value: 3.5},
			},
		},
		{
			name: "whitespace cells are skipped",
			rec:  []string{" 100", " 1.5", "   ", " 3.5"},
			expected: []Sample{
				{TimestampNS: 100, Series: 5, Value: 1.5},
				{TimestampNS: 100, Series: 7, Value: 3.5},
			},
		},
		{
			name: "unparseable cells are skipped",
			rec:  []string{"100", "oops", "2.5", "3.5"},
			expected: []Sample{
				{TimestampNS: 100, Series: 6, Value: 2.5},
				{TimestampNS: 100, Series: 7, Value: 3.5},
			},
		},
		{
			name: "short records yield what they hold",
			rec:  []string{"100", "1.5"},
			expected: []Sample{
				{TimestampNS: 100, Series: 5, Value: 1.5},
			},
		},
		{
			name:      "bad timestamp rejects the row",
			rec:       []string{"not-a-time", "1.5", "2.5", "3.5"},
			expectErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			samples, err := parseTraceRow(tc.rec, dataCols, headingSeries)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected an error, got samples %+v", samples)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected parse to succeed, got: %v", err)
			}
			if len(samples) != len(tc.expected) {
				t.Fatalf("expected %d samples, got %+v", len(tc.expected), samples)
			}
			for i := range tc.expected {
				if samples[i] != tc.expected[i] {
					t.Errorf("sample %d: expected %+v, got %+v", i, tc.expected[i], samples[i])
				}
			}
		})
	}
}
