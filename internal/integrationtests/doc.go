// Package integrationtests runs the whole application against HCL files on
// disk and checks the rendered values.
package integrationtests
