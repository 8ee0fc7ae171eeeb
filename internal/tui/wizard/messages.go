package wizard

// TabExitForwardMsg is sent by step content when Tab is pressed on its last
// input: focus should move to the button bar.
type TabExitForwardMsg struct{}

// TabExitBackwardMsg is sent by step content when Shift+Tab is pressed on
// its first input: focus should move to the button bar from the end.
type TabExitBackwardMsg struct{}
