package cli

import "testing"

func TestParseParam(t *testing.T) {
	cases := []struct {
		in   string
		key  string
		want any
	}{
		{"threads=4", "threads", 4},
		{"mip_rel_gap=0.01", "mip_rel_gap", 0.01},
		{"presolve=off", "presolve", "off"},
		{"output_flag=true", "output_flag", true},
		{"output_flag=FALSE", "output_flag", false},
		{"threads=1", "threads", 1},
	}
	for _, tc := range cases {
		k, v, err := parseParam(tc.in)
		if err != nil {
			t.Fatalf("parseParam(%q): %v", tc.in, err)
		}
		if k != tc.key || v != tc.want {
			t.Errorf("parseParam(%q) = %q, %v (%T); want %q, %v", tc.in, k, v, v, tc.key, tc.want)
		}
	}
}

func TestParseParamErrors(t *testing.T) {
	for _, in := range []string{"noequals", "=value"} {
		if _, _, err := parseParam(in); err == nil {
			t.Errorf("parseParam(%q): expected error", in)
		}
	}
}
