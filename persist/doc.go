/*
Package persist implements the save and load protocol for stateful,
configurable components.

# Overview

A component exposes a stable UID and a declared field set. Saving
renders the encoded fields into a JSON manifest and writes it as one
blob under the component's path; loading reads the manifest back,
checks the class, and decodes each field through its codec.

# Saving

	scaler := transform.NewLinearScaler()
	scaler.SetScale(2)

	writer := persist.NewGenericWriter("LinearScaler")
	err := writer.Save(ctx, "models/scaler-v1", scaler)

Saving to an occupied path fails with ErrAlreadyExists unless the
writer is switched to overwrite mode:

	err := writer.Overwrite().Save(ctx, "models/scaler-v1", scaler)

# Loading

A caller that knows the concrete type loads into a fresh instance:

	scaler, err := persist.LoadAs[*transform.LinearScaler](ctx, "models/scaler-v1")

A caller that does not can reconstruct from the manifest alone, for
every type registered with Register:

	component, err := persist.Load(ctx, "models/scaler-v1")

# Errors

Failures match the package sentinels with errors.Is: ErrAlreadyExists,
ErrNotFound, ErrClassMismatch, ErrMalformedMetadata, ErrUnknownField,
ErrFieldDecode, and ErrUnknownClass.

# Sessions

Operations run against a session bundling the storage backend, logger,
and metrics. Without WithSession they use the process-wide default,
configured from MODELVAULT_* environment variables.
*/
package persist
