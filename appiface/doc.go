// Package appiface defines the boundary between the routing node and the
// embedding application: one Application interface of synchronous
// callbacks, plus the Action/InterfaceError/RoutingNodeAction descriptor
// types the dispatcher interprets on their return.
//
// Callbacks never reach back into the node. A handler either returns an
// Action (Reply or SendOn) or an InterfaceError (Abort or Response), and
// the dispatcher does the actual forwarding. HandleChurn similarly returns
// a list of RoutingNodeAction descriptors rather than calling get/put
// itself.
package appiface
