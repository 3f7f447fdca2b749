// Filter NPC greetings by whether the player is actually facing the NPC.
//
// The host game decides "should this NPC comment at the player" inside an
// undocumented routine whose address moves with every binary revision.
// This package finds that routine by scanning the loaded module for a short
// machine-code signature, verifies the bytes still match, and splices a
// generated trampoline over them that consults a configurable angle and
// distance filter before letting the greeting through.
//
// Everything runs once, synchronously, on whatever thread loads the
// plugin. After installation the only live artifact is the generated code,
// which host threads may enter concurrently at any time; it reads nothing
// but immutable configuration.
//
// Limitations:
//   - The signature and generated code are x86-64 only.
//   - A failed installation leaves the plugin loaded but inert; there is
//     no retry and no uninstall.
package toyourface
