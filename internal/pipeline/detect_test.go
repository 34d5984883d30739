package pipeline

import "testing"

func TestDetectMissionText(t *testing.T) {
	cases := []struct {
		name    string
		subject string
		text    string
		files   []string
		want    bool
	}{
		{
			name:    "contract body",
			subject: "Fwd: hauling contract",
			text:    "Collect Gold from Area18.\nDeliver 10 SCU Gold to Baijini Point on Pad 04.\nReward 48,500",
			want:    true,
		},
		{
			name: "deliver line alone",
			text: "Deliver 10 SCU Gold to Baijini Point on Pad 04.",
			want: true,
		},
		{
			name:    "unrelated",
			subject: "Lunch",
			text:    "See you at noon",
			want:    false,
		},
		{
			name:    "pdf attachment with weak text",
			subject: "cargo",
			text:    "16 SCU",
			files:   []string{"contract.pdf"},
			want:    true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectMissionText(tc.subject, tc.text, tc.files)
			if got.IsMission != tc.want {
				t.Fatalf("got %+v want %v", got, tc.want)
			}
		})
	}
}
