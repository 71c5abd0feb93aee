package session

import "testing"

func TestApply(t *testing.T) {
	const questions = 2

	tests := []struct {
		name     string
		in       State
		t        Transition
		hasVotes bool
		want     State
		accepted bool
	}{
		{
			name:     "start from fresh",
			in:       State{},
			t:        Start,
			want:     State{Started: true},
			accepted: true,
		},
		{
			name:     "start ignored mid-session",
			in:       State{Started: true, Index: 1},
			t:        Start,
			want:     State{Started: true, Index: 1},
			accepted: false,
		},
		{
			name:     "restart after completion resets cursor",
			in:       State{Started: true, Index: 1, Completed: true},
			t:        Start,
			want:     State{Started: true},
			accepted: true,
		},
		{
			name:     "reveal with votes",
			in:       State{Started: true},
			t:        Reveal,
			hasVotes: true,
			want:     State{Started: true, Revealed: true},
			accepted: true,
		},
		{
			name:     "reveal without votes rejected",
			in:       State{Started: true},
			t:        Reveal,
			want:     State{Started: true},
			accepted: false,
		},
		{
			name:     "reveal twice rejected",
			in:       State{Started: true, Revealed: true},
			t:        Reveal,
			hasVotes: true,
			want:     State{Started: true, Revealed: true},
			accepted: false,
		},
		{
			name:     "reveal before start rejected",
			in:       State{},
			t:        Reveal,
			hasVotes: true,
			want:     State{},
			accepted: false,
		},
		{
			name:     "next clears reveal",
			in:       State{Started: true, Revealed: true},
			t:        Next,
			want:     State{Started: true, Index: 1},
			accepted: true,
		},
		{
			name:     "next at last index rejected",
			in:       State{Started: true, Index: 1},
			t:        Next,
			want:     State{Started: true, Index: 1},
			accepted: false,
		},
		{
			name:     "previous",
			in:       State{Started: true, Index: 1, Revealed: true},
			t:        Previous,
			want:     State{Started: true, Index: 0},
			accepted: true,
		},
		{
			name:     "previous at index zero rejected",
			in:       State{Started: true},
			t:        Previous,
			want:     State{Started: true},
			accepted: false,
		},
		{
			name:     "previous exits summary to last question",
			in:       State{Started: true, Index: 1, Completed: true},
			t:        Previous,
			want:     State{Started: true, Index: 1},
			accepted: true,
		},
		{
			name:     "reset results returns to voting",
			in:       State{Started: true, Index: 1, Revealed: true},
			t:        ResetResults,
			want:     State{Started: true, Index: 1},
			accepted: true,
		},
		{
			name:     "reset results while voting rejected",
			in:       State{Started: true},
			t:        ResetResults,
			want:     State{Started: true},
			accepted: false,
		},
		{
			name:     "complete from any in-session state",
			in:       State{Started: true, Revealed: true},
			t:        Complete,
			want:     State{Started: true, Completed: true},
			accepted: true,
		},
		{
			name:     "complete twice rejected",
			in:       State{Started: true, Completed: true},
			t:        Complete,
			want:     State{Started: true, Completed: true},
			accepted: false,
		},
		{
			name:     "full reset from anywhere",
			in:       State{Started: true, Index: 1, Revealed: true, Completed: true},
			t:        FullReset,
			want:     State{},
			accepted: true,
		},
		{
			name:     "vote-irrelevant transitions ignore hasVotes",
			in:       State{Started: true},
			t:        Next,
			hasVotes: true,
			want:     State{Started: true, Index: 1},
			accepted: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Apply(tc.in, tc.t, questions, tc.hasVotes)
			if ok != tc.accepted {
				t.Fatalf("accepted = %v, want %v", ok, tc.accepted)
			}
			if got != tc.want {
				t.Fatalf("state = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestGoTo(t *testing.T) {
	tests := []struct {
		name     string
		in       State
		index    int
		count    int
		want     State
		accepted bool
	}{
		{
			name:     "jump to valid index re-enters voting",
			in:       State{Started: true, Index: 0, Revealed: true},
			index:    1,
			count:    2,
			want:     State{Started: true, Index: 1},
			accepted: true,
		},
		{
			name:     "jump out of range rejected",
			in:       State{Started: true, Index: 1},
			index:    2,
			count:    2,
			want:     State{Started: true, Index: 1},
			accepted: false,
		},
		{
			name:     "negative index rejected",
			in:       State{Started: true},
			index:    -1,
			count:    2,
			want:     State{Started: true},
			accepted: false,
		},
		{
			name:     "jump before start rejected",
			in:       State{},
			index:    0,
			count:    2,
			want:     State{},
			accepted: false,
		},
		{
			name:     "jump from summary returns in-session",
			in:       State{Started: true, Index: 1, Completed: true},
			index:    0,
			count:    2,
			want:     State{Started: true, Index: 0},
			accepted: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := GoTo(tc.in, tc.index, tc.count)
			if ok != tc.accepted {
				t.Fatalf("accepted = %v, want %v", ok, tc.accepted)
			}
			if got != tc.want {
				t.Fatalf("state = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestStartSessionBeginsAtIndexZero(t *testing.T) {
	s := State{Started: true, Index: 1, Revealed: true, Completed: true}
	s, _ = Apply(s, FullReset, 2, false)
	s, ok := Apply(s, Start, 2, false)
	if !ok || s.Index != 0 || !s.Started || s.Revealed || s.Completed {
		t.Fatalf("expected fresh session at index 0, got %+v", s)
	}
}
