// Package schema defines the content schema model shared by every stage of
// the pipeline: the transient DetectedField produced per marked element, the
// canonical FieldSchema/SectionSchema/PageSchema hierarchy, the persisted
// ProjectSchema document and the SchemaDiff report. Pointer-valued optional
// properties keep "not supplied" distinct from explicit zero values so merge
// and diff can reason about which occurrence defined a property.
package schema
