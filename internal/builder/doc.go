/*
Package builder is responsible for the construction of task graphs. It sits
between code that describes layers (the HCL loader, tests, library callers) and
the dag package that stores them.

The primary artifact produced by this package is a validated *dag.Graph.

Graph construction is a multi-phase process:

 1. Layer Collection: callers Add layers together with the ids they read from.
    Dependencies may name layers that are added later. Layers added inside a
    WithPool scope are tagged with that scope's pool unless they carry their
    own tag.

 2. Dependency Linking: Build inserts every layer into a fresh graph and then
    creates one edge per declared dependency. A dependency on an id that was
    never added fails here.

 3. Validation: Build runs cycle detection so that everything downstream can
    assume a DAG.

Scopes are explicit values rather than ambient state. WithPool restores the
enclosing scope on every exit path, including errors and panics raised by the
callback.
*/
package builder
