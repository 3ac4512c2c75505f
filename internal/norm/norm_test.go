package norm

import "testing"

func TestNormalize_Basic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Re:  Team   Sync", "Team Sync"},
		{"re: re: Weekly Standup", "Weekly Standup"},
		{"Q1 Planning Meeting", "Q1 Planning Meeting"},
		{"Design Review:", "Design Review"},
		{"Launch prep...", "Launch prep"},
		{"Sales – EMEA", "Sales - EMEA"},
		{"Sales—EMEA", "Sales - EMEA"},
		{"Kickoff: Phase 2", "Kickoff - Phase 2"},
		{"Standup 10:30", "Standup 10:30"},
		{"Catch-up with Dana", "Catch-up with Dana"},
		{"“Offsite” planning", `"Offsite" planning`},
		{"John’s 1:1", "John's 1:1"},
		{"Budget &amp; Roadmap", "Budget & Roadmap"},
		{"Budget &amp;amp; Roadmap", "Budget & Roadmap"},
		{"X::", "X"},
		{"A:-", "A"},
		{"Team Sync:—", "Team Sync"},
		{"   ", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q，期望 %q", c.in, got, c.want)
		}
	}
}

// 幂等性：对任意输入，二次规范化不再改变结果。
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Re:  Team   Sync",
		"re: re: Weekly Standup",
		"Budget &amp;amp; Roadmap",
		"Sales – EMEA — follow up:",
		"Kickoff: Phase 2...",
		"John’s 1:1 “notes”",
		"- leading dash",
		": leading colon",
		"trailing - ",
		// 结尾连续分隔符：剥掉末标点会露出新的 " -" 尾巴，
		// 必须在一次 Normalize 内收敛。
		"X::",
		"A:-",
		"Team Sync:—",
		"X: -",
		"Catch-up 10:30",
		"",
		"   ",
		"&amp;&amp;&amp;",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("幂等性被破坏：Normalize(%q)=%q，再规范化得 %q", in, once, twice)
		}
	}
}

func TestKey_CaseFolded(t *testing.T) {
	if Key("Re: TEAM Sync") != "team sync" {
		t.Fatalf("Key 未小写：%q", Key("Re: TEAM Sync"))
	}
	// 标题与文件名经过 Key 后必须落到同一个桶。
	if Key("Team Sync – notes") != Key("re: team sync - notes") {
		t.Fatal("等价名字的 Key 不一致")
	}
	// 尾部分隔符堆叠不能把本应精确匹配的名字拆进不同的桶。
	if Key("X:") != Key("X::") {
		t.Fatalf("尾部分隔符影响了 Key：%q vs %q", Key("X:"), Key("X::"))
	}
}
