// Package watch reports HTML documents that changed on disk.
//
// A Watcher adds fsnotify watches to directories (recursively) and collects
// raw events per path. A path is emitted once no further event has arrived
// for the debounce interval, so an editor's burst of writes becomes a single
// re-validation.
package watch
