/*
Package iteratable implements iteratable container data structures, ported
from github.com/npillmayer/gorgo/lr/iteratable (whose Set type is used
throughout the teacher's CFSM/closure construction in lr/tables.go).

Set is a special-purpose set type, suitable for the kind of closure and
worklist algorithms this module's lr1 package is built from: items are
added/removed while an iteration over the set is in progress, and new
elements discovered partway through a pass must be visited before the
pass ends.

Unusually, Add, Remove and Union modify the receiver in place; only
Difference and Copy return a new set.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package iteratable
