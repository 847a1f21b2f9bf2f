// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to driven ports.
//
//   - BookmarkService: breadth-first flattening of an engine's bookmark tree
//   - OutlinePanelService: the outline panel controller
//   - SettingsService: typed access to the config store
package services
