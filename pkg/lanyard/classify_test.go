package lanyard

import "testing"

// --- helpers to build test activities ---

func gameAct(name string) Activity {
	return Activity{ID: "abc123", Name: name, Type: GameActivity}
}

func customAct(state string) Activity {
	return Activity{ID: "custom", Name: "Custom Status", Type: CustomActivity, State: state}
}

func spotifyAct() Activity {
	return Activity{ID: MusicActivityID, Name: "Spotify", Type: ListeningActivity}
}

func watchAct(name string) Activity {
	return Activity{ID: "watch1", Name: name, Type: WatchingActivity}
}

func TestClassifyEmpty(t *testing.T) {
	c := Classify(nil)
	if c.Primary != nil {
		t.Errorf("Primary = %v, want nil", c.Primary)
	}
	if len(c.Secondary) != 0 {
		t.Errorf("Secondary has %d entries, want 0", len(c.Secondary))
	}
	if c.HasActivities() {
		t.Error("HasActivities() = true for empty input")
	}
}

func TestClassifySpotifyWinsOverGame(t *testing.T) {
	input := []Activity{gameAct("Hollow Knight"), spotifyAct(), customAct("hi")}
	c := Classify(input)

	if c.Primary == nil || c.Primary.ID != MusicActivityID {
		t.Fatalf("Primary = %+v, want the spotify activity", c.Primary)
	}
	if len(c.Secondary) != 2 {
		t.Fatalf("Secondary has %d entries, want 2", len(c.Secondary))
	}
	// Original relative order minus the primary.
	if c.Secondary[0].Name != "Hollow Knight" || c.Secondary[1].ID != "custom" {
		t.Errorf("Secondary order = [%s, %s], want [Hollow Knight, custom]",
			c.Secondary[0].Name, c.Secondary[1].ID)
	}
}

func TestClassifyGameBeatsOtherTypes(t *testing.T) {
	input := []Activity{watchAct("YouTube"), gameAct("Celeste")}
	c := Classify(input)

	if c.Primary == nil || c.Primary.Name != "Celeste" {
		t.Fatalf("Primary = %+v, want Celeste", c.Primary)
	}
	if len(c.Secondary) != 1 || c.Secondary[0].Name != "YouTube" {
		t.Errorf("Secondary = %+v, want [YouTube]", c.Secondary)
	}
}

func TestClassifyFirstNonCustomFallback(t *testing.T) {
	input := []Activity{customAct("vibing"), watchAct("YouTube"), watchAct("Twitch")}
	c := Classify(input)

	if c.Primary == nil || c.Primary.Name != "YouTube" {
		t.Fatalf("Primary = %+v, want the first non-custom activity", c.Primary)
	}
	if len(c.Secondary) != 2 {
		t.Fatalf("Secondary has %d entries, want 2", len(c.Secondary))
	}
	if c.Secondary[0].ID != "custom" || c.Secondary[1].Name != "Twitch" {
		t.Errorf("Secondary order = [%s, %s], want [custom, Twitch]",
			c.Secondary[0].ID, c.Secondary[1].Name)
	}
}

func TestClassifyOnlyCustomStatusHasNoPrimary(t *testing.T) {
	input := []Activity{customAct("just chilling")}
	c := Classify(input)

	if c.Primary != nil {
		t.Errorf("Primary = %+v, want nil when only custom statuses exist", c.Primary)
	}
	if len(c.Secondary) != 1 || c.Secondary[0].State != "just chilling" {
		t.Errorf("Secondary = %+v, want the untouched input list", c.Secondary)
	}
}

func TestClassifySecondaryCountInvariant(t *testing.T) {
	cases := [][]Activity{
		nil,
		{customAct("a")},
		{gameAct("g")},
		{spotifyAct(), gameAct("g"), customAct("c"), watchAct("w")},
		{customAct("a"), customAct("b")},
	}
	for _, input := range cases {
		c := Classify(input)
		want := len(input)
		if c.Primary != nil {
			want--
		}
		if len(c.Secondary) != want {
			t.Errorf("Classify(%d activities): |secondary| = %d, want %d",
				len(input), len(c.Secondary), want)
		}
	}
}

func TestClassifyDoesNotAliasInput(t *testing.T) {
	input := []Activity{gameAct("Celeste"), customAct("hi")}
	c := Classify(input)

	input[0].Name = "mutated"
	if c.Primary.Name != "Celeste" {
		t.Error("Primary aliases the caller's slice")
	}
}
